package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/services"
	"gorm.io/gorm"
)

type CreatePostRequest struct {
	Body     string  `json:"body" validate:"required,max=2000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

func CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	post := models.Post{
		ID:       uuid.New(),
		AuthorID: currentUserID(c),
		Body:     req.Body,
		ImageURL: req.ImageURL,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create post"})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func GetFeed(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	offset := (page - 1) * pageSize

	var posts []models.Post
	err := database.DB.
		Preload("Author").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch feed"})
	}
	return c.JSON(posts)
}

func GetPost(c *fiber.Ctx) error {
	var post models.Post
	err := database.DB.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at asc") }).
		Preload("Comments.Author").
		First(&post, "id = ?", c.Params("postId")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	var likes int64
	database.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)

	return c.JSON(fiber.Map{"post": post, "likes": likes})
}

func DeletePost(c *fiber.Ctx) error {
	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Params("postId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	isAdmin := claims["role"].(string) == "admin"

	if post.AuthorID != currentUserID(c) && !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your post"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete post"})
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

func CreateComment(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateCommentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var post models.Post
		if err := database.DB.First(&post, "id = ?", c.Params("postId")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}

		authorID := currentUserID(c)
		comment := models.Comment{
			ID:       uuid.New(),
			PostID:   post.ID,
			AuthorID: authorID,
			Body:     req.Body,
		}
		if err := database.DB.Create(&comment).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create comment"})
		}

		if post.AuthorID != authorID {
			var commenter models.User
			if err := database.DB.Select("handle").First(&commenter, "id = ?", authorID).Error; err == nil {
				body := fmt.Sprintf("@%s commented on your post", commenter.Handle)
				if err := notifs.Create(post.AuthorID, models.NotificationTypeComment, body); err != nil {
					log.Printf("Failed to create comment notification: %v", err)
				}
			}
		}

		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

// LikePost is idempotent: the (post, user) unique index collapses repeat
// likes and the handler treats the duplicate as success.
func LikePost(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var post models.Post
		if err := database.DB.First(&post, "id = ?", c.Params("postId")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}

		userID := currentUserID(c)
		like := models.Like{ID: uuid.New(), PostID: post.ID, UserID: userID}
		if err := database.DB.Create(&like).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to like post"})
			}
			return c.JSON(fiber.Map{"message": "Already liked"})
		}

		if post.AuthorID != userID {
			var liker models.User
			if err := database.DB.Select("handle").First(&liker, "id = ?", userID).Error; err == nil {
				body := fmt.Sprintf("@%s liked your post", liker.Handle)
				if err := notifs.Create(post.AuthorID, models.NotificationTypeLike, body); err != nil {
					log.Printf("Failed to create like notification: %v", err)
				}
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post liked"})
	}
}

func UnlikePost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	err = database.DB.
		Where("post_id = ? AND user_id = ?", postID, currentUserID(c)).
		Delete(&models.Like{}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unlike post"})
	}
	return c.JSON(fiber.Map{"message": "Post unliked"})
}
