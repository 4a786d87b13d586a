package usecase

import (
	"context"
	"strconv"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

// ProfilePermissions flattens the caller's effective casbin policies, role
// grants included, into object -> actions for the client to gate its UI on.
func (s *Usecase) ProfilePermissions(ctx context.Context) (map[string][]string, error) {
	ctx, span := s.startSpan(ctx, "ProfilePermissions")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	subject := strconv.FormatInt(clm.UserID, 10)
	policies, err := s.enforcer.GetImplicitPermissionsForUser(subject)
	if err != nil {
		return nil, err
	}

	permissions := make(map[string][]string, len(policies))
	for _, p := range policies {
		// A well-formed policy is (subject, object, action).
		if len(p) < 3 {
			continue
		}
		permissions[p[1]] = append(permissions[p[1]], p[2])
	}

	return permissions, nil
}
