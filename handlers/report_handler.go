package handlers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/services"
)

type CreateReportRequest struct {
	SubjectType string `json:"subject_type" validate:"required,oneof=user post comment message"`
	SubjectID   string `json:"subject_id" validate:"required,uuid"`
	Reason      string `json:"reason" validate:"required,max=1000"`
}

func CreateReport(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	subjectID, _ := uuid.Parse(req.SubjectID)

	report := models.Report{
		ID:          uuid.New(),
		ReporterID:  currentUserID(c),
		SubjectType: req.SubjectType,
		SubjectID:   subjectID,
		Reason:      req.Reason,
		Status:      models.ReportStatusOpen,
	}
	if err := database.DB.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create report"})
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func ListReports(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	query := database.DB.Model(&models.Report{}).Preload("Reporter")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var reports []models.Report
	err := query.
		Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reports).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reports"})
	}

	return c.JSON(fiber.Map{"reports": reports, "total": total, "page": page})
}

type UpdateReportRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}

// UpdateReport closes out a report. The decision lands in the audit log and
// the reporter gets a notification either way.
func UpdateReport(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UpdateReportRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var report models.Report
		if err := database.DB.First(&report, "id = ?", c.Params("reportId")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		if report.Status != models.ReportStatusOpen {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Report already closed"})
		}

		adminID := currentUserID(c)
		now := time.Now()
		report.Status = req.Status
		report.ResolvedByID = &adminID
		report.ResolvedAt = &now
		if err := database.DB.Save(&report).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update report"})
		}

		writeAudit(adminID, "report."+req.Status, "report", report.ID,
			fmt.Sprintf("%s %s reported for: %s", report.SubjectType, report.SubjectID, report.Reason))

		body := fmt.Sprintf("Your report was %s by a moderator", req.Status)
		if err := notifs.Create(report.ReporterID, models.NotificationTypeModeration, body); err != nil {
			log.Printf("Failed to notify reporter %s: %v", report.ReporterID, err)
		}

		return c.JSON(report)
	}
}
