package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yungbote/cmi5-backend/internal/services"
)

type PackageService struct{ mock.Mock }

func (m *PackageService) Upload(ctx context.Context, src services.PackageSource) (*services.UploadedPackage, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadedPackage), args.Error(1)
}

func (m *PackageService) Remove(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *PackageService) LaunchURL(fileLink string) string {
	return m.Called(fileLink).String(0)
}
