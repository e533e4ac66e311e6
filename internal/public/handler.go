package public

import (
	"errors"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/response"
	"github.com/gofiber/fiber/v2"
)

func pageParams(c *fiber.Ctx) (int, int) {
	page := response.ClampPage(c.QueryInt("page", 1))
	size := c.QueryInt("size", 10)
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

func ConstituencyHandler(c *fiber.Ctx) error {
	term, err := c.ParamsInt("assembly_term")
	if err != nil || term <= 0 {
		return response.BadRequest(c, "Invalid assembly term", nil)
	}

	views, err := Constituencies(database.DB, term, c.Params("region"))
	if errors.Is(err, area.ErrRegionNotFound) {
		return response.BadRequest(c, err.Error(), nil)
	}
	if err != nil {
		return response.InternalError(c, "Failed to load constituencies")
	}

	return response.Success(c, views, "Constituencies retrieved successfully")
}

func PoliticianListHandler(c *fiber.Ctx) error {
	term := c.QueryInt("assembly_term", 0)
	if term <= 0 {
		return response.BadRequest(c, "assembly_term is required", nil)
	}
	sortType := c.Query("sort_type", "desc")
	if sortType != "asc" && sortType != "desc" {
		return response.BadRequest(c, "sort_type must be asc or desc", nil)
	}
	page, size := pageParams(c)

	result, err := RankPoliticians(database.DB, SearchParams{
		AssemblyTerm: term,
		SortType:     sortType,
		Page:         page,
		Size:         size,
	})
	if err != nil {
		return response.InternalError(c, "Failed to load politicians")
	}

	return response.SuccessWithMeta(c, result.Items, response.CalculateMeta(page, size, result.Total), "Politicians retrieved successfully")
}

func PoliticianSearchHandler(c *fiber.Ctx) error {
	term := c.QueryInt("assembly_term", 0)
	if term <= 0 {
		return response.BadRequest(c, "assembly_term is required", nil)
	}
	page, size := pageParams(c)

	result, err := SearchPoliticians(database.DB, SearchParams{
		AssemblyTerm: term,
		Name:         c.Query("name"),
		Party:        c.Query("party"),
		Region:       c.Query("region"),
		SortType:     c.Query("sort_type", "desc"),
		Page:         page,
		Size:         size,
	})
	if errors.Is(err, ErrSearchKeyRequired) || errors.Is(err, area.ErrRegionNotFound) {
		return response.BadRequest(c, err.Error(), nil)
	}
	if err != nil {
		return response.InternalError(c, "Failed to search politicians")
	}

	return response.SuccessWithMeta(c, result.Items, response.CalculateMeta(page, size, result.Total), "Politicians retrieved successfully")
}
