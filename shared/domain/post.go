package domain

import "time"

type Post struct {
	Id            PostId      `json:"postId"`
	CreatorUserId UserId      `json:"creatorUserId"`
	Title         PostTitle   `json:"title"`
	Content       PostContent `json:"content"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastUpdatedAt time.Time   `json:"lastUpdatedAt"`
	DeletedAt     *time.Time  `json:"-"`
}

func (p Post) IsActive() bool {
	return p.DeletedAt == nil
}

type PostCreationData struct {
	CreatorUserId UserId
	Title         PostTitle
	Content       PostContent
}

// PostUpdateData carries a partial update. Nil fields are left untouched.
type PostUpdateData struct {
	Id      PostId
	Title   *PostTitle
	Content *PostContent
}

func (u PostUpdateData) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

// PostPatch is what a store applies to an active post.
type PostPatch struct {
	PostUpdateData
	LastUpdatedAt time.Time
}

// Apply merges the patch into p and returns the result.
func (pp PostPatch) Apply(p Post) Post {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	p.LastUpdatedAt = pp.LastUpdatedAt
	return p
}

type PostUpdateResult struct {
	Post    Post
	Applied bool // false if the post does not exist or is deleted
}

// PostLookup is either PostFound or PostNotFound.
type PostLookup interface {
	isPostLookup()
}

type PostFound struct {
	Post Post
}

type PostNotFound struct{}

func (PostFound) isPostLookup()    {}
func (PostNotFound) isPostLookup() {}
