package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/blog-web/internal/db"
	"github.com/example/blog-web/internal/models"
)

const (
	ActionNewPost    = "new_post"
	ActionUpdatePost = "update_post"
	ActionDeletePost = "delete_post"
)

type PostRepository struct{ db *db.Database }

func NewPostRepository(database *db.Database) *PostRepository {
	return &PostRepository{db: database}
}

// Create inserts the post and its activity-log row in one transaction. The
// store assigns the id; any caller-supplied id is discarded.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	p.ID = 0
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(p).Error; err != nil {
			return err
		}
		return r.logActivity(ctx, tx, ActionNewPost, p.ID)
	})
}

// Update replaces title and text of the row with p.ID. A missing row is
// reported as gorm.ErrRecordNotFound.
func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).Model(&models.Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"title": p.Title,
			"text":  p.Text,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.logActivity(ctx, tx, ActionUpdatePost, p.ID)
	})
}

// Delete fetches then deletes the row, so a missing id surfaces as
// gorm.ErrRecordNotFound rather than a silent no-op.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.WithContext(ctx).First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Delete(&post).Error; err != nil {
			return err
		}
		return r.logActivity(ctx, tx, ActionDeletePost, id)
	})
}

func (r *PostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Gorm.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPage returns one page of posts ordered ascending by id, plus the
// total row count.
func (r *PostRepository) ListPage(ctx context.Context, offset, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.Gorm.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	if err := r.db.Gorm.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) logActivity(ctx context.Context, tx *gorm.DB, action string, postID uint) error {
	entry := models.ActivityLog{Action: action, PostID: postID}
	return tx.WithContext(ctx).Create(&entry).Error
}
