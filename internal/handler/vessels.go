package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

func (h *Handler) CreateVessel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                   string `json:"name" validate:"required"`
		CheckInIntervalMinutes *int32 `json:"checkInIntervalMinutes" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vessel := &domain.Vessel{
		Name:                   req.Name,
		CheckInIntervalMinutes: int32(h.config.Vessel.DefaultCheckInInterval),
	}
	if req.CheckInIntervalMinutes != nil {
		vessel.CheckInIntervalMinutes = *req.CheckInIntervalMinutes
	}

	if err := h.repository.CreateVessel(vessel); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "船舶创建成功", vessel)
}

func (h *Handler) GetAllVessels(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.repository.GetAllVessels()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取船舶列表成功", vessels)
}

func (h *Handler) GetVessel(w http.ResponseWriter, r *http.Request) {
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)
	h.successResponse(w, r, "获取船舶信息成功", vessel)
}

func (h *Handler) UpdateVessel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                   *string `json:"name"`
		CheckInIntervalMinutes *int32  `json:"checkInIntervalMinutes" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)

	if req.Name != nil {
		vessel.Name = *req.Name
	}
	if req.CheckInIntervalMinutes != nil {
		vessel.CheckInIntervalMinutes = *req.CheckInIntervalMinutes
	}

	if err := h.repository.UpdateVessel(vessel); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新船舶信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新船舶信息成功", vessel)
}

func (h *Handler) DeleteVessel(w http.ResponseWriter, r *http.Request) {
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)

	if err := h.repository.DeleteVessel(vessel.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除船舶成功", nil)
}
