package usecase

import (
	"testing"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/shared/constant"
)

func TestCounselorDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(entity.Counselor{ID: 7, FullName: "Dewi Lestari", Status: entity.CounselorStatusActive})
	enforcer := newTestEnforcer(t,
		[3]string{"9", constant.PermDirectoryCounselors, constant.PermActDelete})
	uc := newTestUsecase(t, repo, enforcer)

	if err := uc.CounselorDelete(authCtx(9), CounselorDeleteInput{ID: 7}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := repo.get(t, 7).Status; got != entity.CounselorStatusInactive {
		t.Fatalf("expected inactive status, got %s", got)
	}
}

func TestCounselorDeleteAlreadyInactive(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(entity.Counselor{ID: 7, Status: entity.CounselorStatusInactive})
	repo.failOn["MarkCounselorInactive"] = goerror.ErrNotFound // must not be reached
	enforcer := newTestEnforcer(t,
		[3]string{"9", constant.PermDirectoryCounselors, constant.PermActDelete})
	uc := newTestUsecase(t, repo, enforcer)

	if err := uc.CounselorDelete(authCtx(9), CounselorDeleteInput{ID: 7}); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestCounselorDeleteMissing(t *testing.T) {
	enforcer := newTestEnforcer(t,
		[3]string{"9", constant.PermDirectoryCounselors, constant.PermActDelete})
	uc := newTestUsecase(t, newFakeRepo(), enforcer)

	err := uc.CounselorDelete(authCtx(9), CounselorDeleteInput{ID: 99})
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestCounselorDeleteForbidden(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(entity.Counselor{ID: 7, Status: entity.CounselorStatusActive})
	uc := newTestUsecase(t, repo, nil)

	err := uc.CounselorDelete(authCtx(9), CounselorDeleteInput{ID: 7})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}
