package inbound

import (
	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/directory/usecase"
	"github.com/tenangapp/tenang/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the counselor directory.
type HTTPEndpoint struct {
	uc uc
}

// CounselorList lists counselors with search, filters and pagination.
// @Summary List counselors
// @Description Returns active counselors matching the search term and filters, sorted and paginated.
// @Tags Directory, Counselors
// @Produce json
// @Param search query string false "Matches full name or title"
// @Param specialty query string false "Filter by specialty"
// @Param language query string false "Filter by language"
// @Param city query string false "Filter by city"
// @Param min_rating query number false "Minimum rating"
// @Param sort_by query string false "One of: rating, experience, sessions" default(rating)
// @Param sort_order query string false "asc or desc" default(desc)
// @Param size query int false "Page size (1-100)" default(10)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} router.successResponse{data=CounselorsResponse} "Counselor list"
// @Failure 400 {object} router.errorResponse "Invalid query parameter"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/counselors [get]
func (h *HTTPEndpoint) CounselorList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	minRating, err := r.GetQueryFloat64("min_rating")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CounselorList(r.Context(), usecase.CounselorListInput{
		Search:    r.GetQuery("search"),
		Specialty: r.GetQuery("specialty"),
		Language:  r.GetQuery("language"),
		City:      r.GetQuery("city"),
		MinRating: minRating,
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	counselors := make([]CounselorResponse, 0, len(resp.Counselors))
	for _, item := range resp.Counselors {
		counselors = append(counselors, toCounselorResponse(item))
	}

	return CounselorsResponse{
		Counselors: counselors,
		total:      resp.Total,
		size:       resp.Size,
		page:       resp.Page,
	}, nil
}

// CounselorDetail returns a single counselor profile.
// @Summary Get counselor detail
// @Description Returns the counselor profile for a given ID. Inactive profiles are reported as not found.
// @Tags Directory, Counselors
// @Produce json
// @Param id path int true "Counselor ID"
// @Success 200 {object} router.successResponse{data=CounselorDetailResponse} "Counselor detail"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 404 {object} router.errorResponse "Counselor not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/counselors/{id} [get]
func (h *HTTPEndpoint) CounselorDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CounselorDetail(r.Context(), usecase.CounselorDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return CounselorDetailResponse{Counselor: toCounselorResponse(resp.Counselor)}, nil
}

// CounselorCreate adds a counselor to the directory.
// @Summary Create counselor
// @Description Creates a counselor profile. Requires directory management permission.
// @Tags Directory, Counselors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CounselorCreateRequest true "Counselor payload"
// @Success 200 {object} router.successResponse{data=CounselorCreateResponse} "Counselor created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/counselors [post]
func (h *HTTPEndpoint) CounselorCreate(r *router.Request) (any, error) {
	var req CounselorCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CounselorCreate(r.Context(), usecase.CounselorCreateInput{
		FullName:        req.FullName,
		Title:           req.Title,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		Languages:       req.Languages,
		YearsExperience: req.YearsExperience,
		City:            req.City,
	})
	if err != nil {
		return nil, err
	}

	return CounselorCreateResponse{ID: resp.ID}, nil
}

// CounselorUpdate updates an existing counselor profile.
// @Summary Update counselor
// @Description Updates counselor details. Requires directory management permission.
// @Tags Directory, Counselors
// @Security BearerAuth
// @Accept json
// @Param id path int true "Counselor ID"
// @Param request body CounselorUpdateRequest true "Counselor update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Counselor not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/counselors/{id} [put]
func (h *HTTPEndpoint) CounselorUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req CounselorUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.CounselorUpdate(r.Context(), usecase.CounselorUpdateInput{
		ID:              id,
		FullName:        req.FullName,
		Title:           req.Title,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		Languages:       req.Languages,
		YearsExperience: req.YearsExperience,
		City:            req.City,
		Status:          req.Status,
	})
}

// CounselorDelete removes a counselor from the directory.
// @Summary Delete counselor
// @Description Hides the counselor from the directory. Requires directory management permission.
// @Tags Directory, Counselors
// @Security BearerAuth
// @Param id path int true "Counselor ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Counselor not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/counselors/{id} [delete]
func (h *HTTPEndpoint) CounselorDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.CounselorDelete(r.Context(), usecase.CounselorDeleteInput{ID: id})
}

func toCounselorResponse(item entity.Counselor) CounselorResponse {
	return CounselorResponse{
		ID:              item.ID,
		FullName:        item.FullName,
		Title:           item.Title,
		Bio:             item.Bio,
		AvatarURL:       item.AvatarURL,
		Specialties:     item.Specialties,
		Languages:       item.Languages,
		YearsExperience: item.YearsExperience,
		City:            item.City,
		Rating:          item.Rating,
		SessionCount:    item.SessionCount,
		Status:          item.Status,
		UpdatedAt:       item.UpdatedAt,
	}
}
