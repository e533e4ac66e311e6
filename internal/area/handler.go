package area

import (
	"errors"

	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/response"
	"github.com/Kyz7/wip/internal/validation"
	"github.com/gofiber/fiber/v2"
)

func CreateConstituencyHandler(c *fiber.Ctx) error {
	var body struct {
		AssemblyTerm   int                 `json:"assembly_term" validate:"required,gte=1"`
		Constituencies []ConstituencyInput `json:"constituencies" validate:"required,min=1,dive"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	created, err := CreateConstituencies(database.DB, body.AssemblyTerm, body.Constituencies)
	if errors.Is(err, ErrRegionNotFound) {
		return response.BadRequest(c, err.Error(), nil)
	}
	if err != nil {
		return response.InternalError(c, "Failed to create constituencies")
	}

	views := make([]ConstituencyView, 0, len(created))
	for i := range created {
		views = append(views, ToView(&created[i]))
	}
	return response.Created(c, views, "Constituencies registered")
}

func ListRegionsHandler(c *fiber.Ctx) error {
	regions, err := ListRegions(database.DB)
	if err != nil {
		return response.InternalError(c, "Failed to load regions")
	}
	return response.Success(c, regions, "Regions retrieved")
}
