package politician

import (
	"errors"
	"strconv"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/auth"
	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/response"
	"github.com/Kyz7/wip/internal/utils"
	"github.com/Kyz7/wip/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for failures the handlers swallow or
// map to 500.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}

func requestLog(c *fiber.Ctx, action string) logrus.FieldLogger {
	fields := logrus.Fields{"action": action, "path": c.Path()}
	if id, _, ok := auth.CurrentAdmin(c); ok {
		fields["admin_id"] = id
	}
	if c.Params("id") != "" {
		fields["politician_id"] = c.Params("id")
	}
	return logger.WithFields(fields)
}

const maxProfileImageSize = 5 * 1024 * 1024

func actorFrom(c *fiber.Ctx) (Actor, bool) {
	id, nickname, ok := auth.CurrentAdmin(c)
	return Actor{AdminID: id, Nickname: nickname}, ok
}

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func CreatePoliticianHandler(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Admin not authenticated")
	}

	var body Request
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	p, err := Create(database.DB, actor, &body)
	if err != nil {
		return writeError(c, err, "create", "Failed to create politician")
	}

	return response.Created(c, fiber.Map{"politician_id": p.ID}, "Politician created successfully")
}

func BulkCreatePoliticianHandler(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Admin not authenticated")
	}

	var body struct {
		Politicians []Request `json:"politicians" validate:"required,min=1,dive"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	count, err := BulkCreate(database.DB, actor, body.Politicians)
	if err != nil {
		return writeError(c, err, "bulk_create", "Failed to import politicians")
	}

	return response.Created(c, fiber.Map{"new_politician_data_count": count}, "Politicians imported successfully")
}

func ListPoliticiansHandler(c *fiber.Ctx) error {
	params := SearchParams{
		Query:        c.Query("q", ""),
		Party:        c.Query("party", ""),
		AssemblyTerm: c.QueryInt("assembly_term", 0),
		Region:       c.Query("region", ""),
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 10),
		SortBy:       c.Query("sort_by", "id"),
		OrderBy:      c.Query("order_by", "asc"),
	}

	result, err := Search(database.DB, params)
	if err != nil {
		return writeError(c, err, "list", "Failed to list politicians")
	}

	meta := response.CalculateMeta(result.Page, result.Limit, result.Total)
	return response.SuccessWithMeta(c, result.Politicians, meta, "Politicians retrieved successfully")
}

func GetPoliticianHandler(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid politician id", nil)
	}

	p, err := Get(database.DB, id)
	if err != nil {
		return writeError(c, err, "get", "Failed to load politician")
	}

	return response.Success(c, fiber.Map{
		"politician":             p,
		"promise_execution_rate": p.PromiseExecutionRate(),
	}, "Politician retrieved successfully")
}

func UpdatePoliticianHandler(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Admin not authenticated")
	}
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid politician id", nil)
	}

	var body Request
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	p, err := Update(database.DB, actor, id, &body)
	if err != nil {
		return writeError(c, err, "update", "Failed to update politician")
	}

	return response.Success(c, p, "Politician updated successfully")
}

func DeletePoliticianHandler(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Admin not authenticated")
	}
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid politician id", nil)
	}

	if err := Delete(database.DB, actor, id); err != nil {
		return writeError(c, err, "delete", "Failed to delete politician")
	}

	return response.Success(c, fiber.Map{"politician_id": id}, "Politician deleted successfully")
}

func UploadProfileImageHandler(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Admin not authenticated")
	}
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid politician id", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required", nil)
	}
	if file.Size > maxProfileImageSize {
		return response.BadRequest(c, "File too large", fiber.Map{
			"max_size_mb":  maxProfileImageSize / (1024 * 1024),
			"file_size_mb": file.Size / (1024 * 1024),
		})
	}
	if !utils.IsAllowedImage(file) {
		return response.BadRequest(c, "Profile image must be JPEG or PNG", nil)
	}

	data, err := normalizeProfileImage(file)
	if err != nil {
		return response.BadRequest(c, "File is not a valid image", nil)
	}

	if _, err := Get(database.DB, id); err != nil {
		return writeError(c, err, "profile_image", "Failed to load politician")
	}

	url, err := utils.UploadFile(data, ".jpg", "image/jpeg")
	if err != nil {
		return response.InternalError(c, "Failed to upload file: "+err.Error())
	}

	previous, err := SetProfileURL(database.DB, actor, id, url)
	if err != nil {
		_ = utils.DeleteFile(url)
		return writeError(c, err, "profile_image", "Failed to update profile image")
	}
	if previous != nil && *previous != "" && *previous != url {
		if err := utils.DeleteFile(*previous); err != nil {
			requestLog(c, "profile_image").WithError(err).WithField("previous_url", *previous).Warn("failed to remove old profile image")
		}
	}

	return response.Success(c, fiber.Map{"profile_url": url}, "Profile image uploaded successfully")
}

func writeError(c *fiber.Ctx, err error, action, fallback string) error {
	switch {
	case errors.Is(err, ErrPoliticianNotFound):
		return response.NotFound(c, "Politician")
	case errors.Is(err, area.ErrRegionNotFound), errors.Is(err, area.ErrConstituencyNotFound):
		return response.BadRequest(c, err.Error(), nil)
	}
	requestLog(c, action).WithError(err).Error(fallback)
	return response.InternalError(c, fallback)
}
