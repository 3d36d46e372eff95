package microblog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotOwner     = errors.New("not the post owner")
	ErrAlreadyLiked = errors.New("already liked")
	ErrLikeNotFound = errors.New("like not found")
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) Create(ctx context.Context, ownerID uint, text string) (Post, error) {
	p := Post{Text: text, OwnerID: ownerID, Timestamp: r.now().UTC()}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (r *Repository) Get(ctx context.Context, id uint) (Post, error) {
	var p Post
	err := r.db.WithContext(ctx).Preload("Owner").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, ErrPostNotFound
	}
	return p, err
}

// Delete removes a post and its likes. Only the owner may delete.
func (r *Repository) Delete(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Post
		err := tx.First(&p, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		if p.OwnerID != userID {
			return ErrNotOwner
		}
		if err := tx.Where("post_id = ?", postID).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

func (r *Repository) Like(ctx context.Context, postID, userID uint) error {
	db := r.db.WithContext(ctx)
	if _, err := r.Get(ctx, postID); err != nil {
		return err
	}

	var n int64
	if err := db.Model(&Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&n).Error; err != nil {
		return fmt.Errorf("count likes: %w", err)
	}
	if n > 0 {
		return ErrAlreadyLiked
	}

	err := db.Create(&Like{PostID: postID, UserID: userID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyLiked
	}
	return err
}

func (r *Repository) Unlike(ctx context.Context, postID, userID uint) error {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&Like{})
	if res.Error != nil {
		return fmt.Errorf("delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// Feed returns posts newest first. ownerID 0 means everyone's posts;
// viewerID 0 means an anonymous viewer.
func (r *Repository) Feed(ctx context.Context, ownerID, viewerID uint) ([]PostRead, error) {
	db := r.db.WithContext(ctx)

	q := db.Preload("Owner").Order("timestamp desc").Order("id desc")
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	var posts []Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]PostRead, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var counts []struct {
		PostID uint
		N      int64
	}
	if err := db.Model(&Like{}).Select("post_id, count(*) as n").
		Where("post_id IN ?", ids).Group("post_id").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	countOf := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countOf[c.PostID] = c.N
	}

	liked := make(map[uint]bool)
	if viewerID != 0 {
		var mine []uint
		if err := db.Model(&Like{}).Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &mine).Error; err != nil {
			return nil, fmt.Errorf("viewer likes: %w", err)
		}
		for _, id := range mine {
			liked[id] = true
		}
	}

	for _, p := range posts {
		out = append(out, PostRead{
			ID:            p.ID,
			Text:          p.Text,
			Timestamp:     p.Timestamp,
			OwnerID:       p.OwnerID,
			OwnerUsername: p.Owner.Username,
			LikesCount:    countOf[p.ID],
			LikedByMe:     liked[p.ID],
		})
	}
	return out, nil
}
