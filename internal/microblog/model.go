package microblog

import (
	"time"

	"github.com/AlmaURepos/practice-next-js/internal/users"
)

type Post struct {
	ID        uint       `gorm:"primaryKey"`
	Text      string     `gorm:"not null"`
	Timestamp time.Time  `gorm:"index;not null"`
	OwnerID   uint       `gorm:"index;not null"`
	Owner     users.User `gorm:"constraint:OnDelete:CASCADE"`
}

// Like is unique per (user, post).
type Like struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex:idx_user_post;not null"`
	PostID uint `gorm:"uniqueIndex:idx_user_post;index;not null"`
}

// PostRead is a post as the API returns it, with like info for the viewer.
type PostRead struct {
	ID            uint      `json:"id"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	OwnerID       uint      `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	LikesCount    int64     `json:"likes_count"`
	LikedByMe     bool      `json:"liked_by_me"`
}

type CreatePostDTO struct {
	Text string `json:"text"`
}

// Models lists the tables this package needs migrated.
func Models() []any {
	return []any{&users.User{}, &Post{}, &Like{}}
}
