package inbound

import (
	"context"

	"github.com/tenangapp/tenang/internal/directory/usecase"
	"github.com/tenangapp/tenang/internal/pkg/router"
)

type uc interface {
	CounselorList(ctx context.Context, in usecase.CounselorListInput) (*usecase.CounselorListOutput, error)
	CounselorDetail(ctx context.Context, in usecase.CounselorDetailInput) (*usecase.CounselorDetailOutput, error)

	CounselorCreate(ctx context.Context, in usecase.CounselorCreateInput) (*usecase.CounselorCreateOutput, error)
	CounselorUpdate(ctx context.Context, in usecase.CounselorUpdateInput) error
	CounselorDelete(ctx context.Context, in usecase.CounselorDeleteInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Public directory
	r.GET("/api/v1/directory/counselors", end.CounselorList)
	r.GET("/api/v1/directory/counselors/:id", end.CounselorDetail)

	// Directory management (need authenticated & authorization)
	r.POST("/api/v1/directory/counselors", end.CounselorCreate)
	r.PUT("/api/v1/directory/counselors/:id", end.CounselorUpdate)
	r.DELETE("/api/v1/directory/counselors/:id", end.CounselorDelete)
}
