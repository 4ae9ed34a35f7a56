// Package thumbs implements the asynchronous post-processing pipeline:
// thumbnail generation for uploaded images and the registration welcome
// message. Jobs travel through a Redis-backed asynq queue; the server side
// only enqueues, cmd/worker consumes.
package thumbs

import "encoding/json"

// Task type names, shared by enqueuer and worker.
const (
	TypeThumbnail = "thumbnail:generate"
	TypeWelcome   = "user:welcome"
)

// ThumbnailWidths are the derived sizes generated for every image, in
// pixels. The artifact for width W of an original stored under key K is
// stored under "K_W".
var ThumbnailWidths = []int{500, 250, 100}

// ThumbnailPayload identifies the image to process.
type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// WelcomePayload identifies the user to greet.
type WelcomePayload struct {
	UserID string `json:"userId"`
}

func marshalPayload(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// payload structs contain only strings; this cannot fail
		panic(err)
	}
	return b
}
