package models

// MaxResponseTitleLength is the number of characters a response title is cut to.
const MaxResponseTitleLength = 10

// NewPost builds an unpersisted post from a write request.
func NewPost(req PostCreate) *Post {
	return &Post{
		Title:   req.Title,
		Content: req.Content,
	}
}

// IsPersisted reports whether the store has assigned an identity to the post.
func (p *Post) IsPersisted() bool {
	return p.ID != 0
}

// ApplyEdit replaces the editable fields of the post.
func (p *Post) ApplyEdit(edit PostEdit) {
	p.Title = edit.Title
	p.Content = edit.Content
}

// NewPostResponse projects a post into its response shape, truncating the title.
func NewPostResponse(p *Post) *PostResponse {
	return &PostResponse{
		ID:      p.ID,
		Title:   truncate(p.Title, MaxResponseTitleLength),
		Content: p.Content,
	}
}

// truncate cuts s to at most n characters, counted in runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
