package usecase

import (
	"context"
	"testing"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/shared/constant"
)

func TestCounselorCreate(t *testing.T) {
	repo := newFakeRepo()
	enforcer := newTestEnforcer(t,
		[3]string{"7", constant.PermDirectoryCounselors, constant.PermActCreate})
	uc := newTestUsecase(t, repo, enforcer)

	out, err := uc.CounselorCreate(authCtx(7), CounselorCreateInput{
		FullName:        "Dewi Lestari",
		Title:           "Clinical Psychologist",
		Bio:             "A decade of practice in anxiety and trauma recovery.",
		Specialties:     []string{"anxiety", "trauma"},
		Languages:       []string{"Indonesian", "English"},
		YearsExperience: 10,
		City:            "Jakarta",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := repo.get(t, out.ID)
	if stored.FullName != "Dewi Lestari" {
		t.Fatalf("unexpected stored counselor: %+v", stored)
	}
	if stored.Status.String() != "Active" {
		t.Fatalf("expected new counselor to be active, got %s", stored.Status)
	}
	if stored.AvatarURL == "" {
		t.Fatal("expected a generated avatar url")
	}
}

func TestCounselorCreateRequiresAuth(t *testing.T) {
	uc := newTestUsecase(t, newFakeRepo(), nil)

	_, err := uc.CounselorCreate(context.Background(), CounselorCreateInput{
		FullName: "Dewi Lestari",
		Title:    "Clinical Psychologist",
	})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestCounselorCreateForbidden(t *testing.T) {
	uc := newTestUsecase(t, newFakeRepo(), nil)

	_, err := uc.CounselorCreate(authCtx(7), CounselorCreateInput{
		FullName: "Dewi Lestari",
		Title:    "Clinical Psychologist",
	})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestCounselorCreateInvalidInput(t *testing.T) {
	uc := newTestUsecase(t, newFakeRepo(), nil)

	_, err := uc.CounselorCreate(authCtx(7), CounselorCreateInput{FullName: "x"})
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
}
