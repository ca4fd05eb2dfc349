package models

// Post represents a persisted blog post.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostCreate is the payload of a write request.
type PostCreate struct {
	Title   string `json:"title" validate:"notblank,max=255,denylist"`
	Content string `json:"content"`
}

// PostEdit is the payload of an edit request. Both fields replace the stored ones.
type PostEdit struct {
	Title   string `json:"title" validate:"notblank,max=255,denylist"`
	Content string `json:"content"`
}

// PostResponse is the read projection of a Post.
type PostResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
