package mocks

import (
	"context"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

func (p *Provider) Name() string {
	args := p.Called()
	return args.String(0)
}

func (p *Provider) LookupKey() gateway.LookupKey {
	args := p.Called()
	return args.Get(0).(gateway.LookupKey)
}

func (p *Provider) MinAmount() int64 {
	args := p.Called()
	return args.Get(0).(int64)
}

func (p *Provider) Create(ctx context.Context, req gateway.CreateRequest) (gateway.CreateResult, error) {
	args := p.Called(ctx, req)
	return args.Get(0).(gateway.CreateResult), args.Error(1)
}

func (p *Provider) ParseCallback(params map[string]string) (gateway.Callback, error) {
	args := p.Called(params)
	return args.Get(0).(gateway.Callback), args.Error(1)
}

func (p *Provider) Verify(ctx context.Context, req gateway.VerifyRequest) error {
	args := p.Called(ctx, req)
	return args.Error(0)
}
