package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tokendist/contexts/identity-access/access-control/application"
	"tokendist/contexts/identity-access/access-control/domain/entities"
	httptransport "tokendist/contexts/identity-access/access-control/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitializeHandler(
	ctx context.Context,
	req httptransport.InitializeRequest,
) (httptransport.RolesResponse, error) {
	roles, err := h.Service.Initialize(ctx, req.Owner)
	if err != nil {
		h.logger().Warn("access http initialize failed",
			"event", "access_http_initialize_failed",
			"module", "identity-access/access-control",
			"layer", "adapter",
			"owner", strings.TrimSpace(req.Owner),
			"error", err.Error(),
		)
		return httptransport.RolesResponse{}, err
	}
	return rolesResponse(roles), nil
}

func (h Handler) TransferOwnershipHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferRoleRequest,
) (httptransport.RolesResponse, error) {
	roles, err := h.Service.TransferOwnership(ctx, caller, req.To)
	if err != nil {
		h.logger().Warn("access http transfer ownership failed",
			"event", "access_http_transfer_ownership_failed",
			"module", "identity-access/access-control",
			"layer", "adapter",
			"caller", strings.TrimSpace(caller),
			"error", err.Error(),
		)
		return httptransport.RolesResponse{}, err
	}
	return rolesResponse(roles), nil
}

func (h Handler) TransferWithdrawshipHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferRoleRequest,
) (httptransport.RolesResponse, error) {
	roles, err := h.Service.TransferWithdrawship(ctx, caller, req.To)
	if err != nil {
		h.logger().Warn("access http transfer withdrawship failed",
			"event", "access_http_transfer_withdrawship_failed",
			"module", "identity-access/access-control",
			"layer", "adapter",
			"caller", strings.TrimSpace(caller),
			"error", err.Error(),
		)
		return httptransport.RolesResponse{}, err
	}
	return rolesResponse(roles), nil
}

func (h Handler) RolesHandler(ctx context.Context) (httptransport.RolesResponse, error) {
	roles, err := h.Service.Roles(ctx)
	if err != nil {
		return httptransport.RolesResponse{}, err
	}
	return rolesResponse(roles), nil
}

func rolesResponse(roles entities.Roles) httptransport.RolesResponse {
	return httptransport.RolesResponse{
		Owner:         roles.Owner,
		Withdrawer:    roles.Withdrawer,
		InitializedAt: roles.InitializedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     roles.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
