package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/utils"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
)

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)

	// 获取参数
	var req struct {
		Name           string     `json:"name" validate:"required"`
		WatchType      string     `json:"watchType" validate:"required,oneof=underway anchor dock"`
		DurationHours  int        `json:"durationHours" validate:"required,min=1"`
		CrewPerWatch   int        `json:"crewPerWatch" validate:"required,min=1"`
		NightStartHour int        `json:"nightStartHour" validate:"min=0,max=23"`
		NightEndHour   int        `json:"nightEndHour" validate:"min=0,max=23"`
		CrewIDs        []int64    `json:"crewIDs" validate:"required"`
		StartTime      *time.Time `json:"startTime"` // 和 endTime 同时给出时使用日期区间模式
		EndTime        *time.Time `json:"endTime"`
		IsStaggered    bool       `json:"isStaggered"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 校验选中的船员
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateCrewSelection(req.CrewIDs, users); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// 按请求给出的顺序组装轮换序列
	ordered, err := h.repository.GetUsersByIDs(req.CrewIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	roster := make([]domain.CrewRef, 0, len(ordered))
	for _, user := range ordered {
		roster = append(roster, domain.CrewRef{UserID: user.ID, UserName: user.FullName})
	}

	// 生成班次
	var slots []domain.WatchSlot
	if req.StartTime != nil && req.EndTime != nil {
		slots, err = watch.GenerateDateRange(roster, &watch.DateRange{
			Start:         *req.StartTime,
			End:           *req.EndTime,
			DurationHours: req.DurationHours,
			CrewPerWatch:  req.CrewPerWatch,
			IsStaggered:   req.IsStaggered,
		})
		if err == nil {
			err = utils.ValidateAbsoluteSlots(slots)
		}
	} else {
		slots, err = watch.GenerateFixedCycle(roster, &watch.Policy{
			DurationHours:  req.DurationHours,
			CrewPerWatch:   req.CrewPerWatch,
			WatchType:      domain.WatchType(req.WatchType),
			NightStartHour: req.NightStartHour,
			NightEndHour:   req.NightEndHour,
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, watch.ErrInvalidPolicy), errors.Is(err, watch.ErrInvalidTime):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 整体替换该船的排班表
	schedule := &domain.WatchSchedule{
		VesselID:     vessel.ID,
		Name:         req.Name,
		WatchType:    domain.WatchType(req.WatchType),
		CrewPerWatch: int32(req.CrewPerWatch),
		IsStaggered:  req.IsStaggered,
		Slots:        slots,
	}

	if err := h.repository.ReplaceSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成排班表成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)
	h.successResponse(w, r, "获取排班表成功", schedule)
}

func (h *Handler) UpdateScheduleSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string `json:"name"`
		WatchType *string `json:"watchType" validate:"omitempty,oneof=underway anchor dock"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.WatchType != nil {
		schedule.WatchType = domain.WatchType(*req.WatchType)
	}

	if err := h.repository.UpdateScheduleSettings(schedule); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班表设置失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排班表设置成功", schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)

	if err := h.repository.DeleteScheduleByVesselID(vessel.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该船舶还没有排班表")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除排班表成功", nil)
}

func (h *Handler) GetActiveSlot(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	slot, err := watch.FindActiveSlot(schedule.Slots, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 没有命中是正常结果，表示当前不在任何值班时段
	if slot == nil {
		h.successResponse(w, r, "当前不在任何值班时段", nil)
		return
	}

	h.successResponse(w, r, "获取当前值班班次成功", slot)
}

type livenessItem struct {
	UserID     int64                `json:"userID"`
	UserName   string               `json:"userName"`
	State      domain.LivenessState `json:"state"`
	AlertLevel domain.AlertLevel    `json:"alertLevel,omitempty"`
	AlertNow   bool                 `json:"alertNow"`
}

func (h *Handler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	now := time.Now()

	slot, err := watch.FindActiveSlot(schedule.Slots, now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if slot == nil {
		h.successResponse(w, r, "当前无人值班", []livenessItem{})
		return
	}

	items := make([]livenessItem, 0, len(slot.Crew))
	for i := range slot.Crew {
		state, err := watch.EvaluateLiveness(&slot.Crew[i], vessel.CheckInIntervalMinutes, now, true)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		level, fire := watch.EvaluateEscalation(state, now)
		items = append(items, livenessItem{
			UserID:     slot.Crew[i].UserID,
			UserName:   slot.Crew[i].UserName,
			State:      state,
			AlertLevel: level,
			AlertNow:   fire,
		})
	}

	h.successResponse(w, r, "获取值班状态成功", items)
}

// ArmReminders 为当前用户整体替换值班提醒：先清空旧的布防，再按最新的排班表重新布防
func (h *Handler) ArmReminders(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	vessel := r.Context().Value(VesselCtx).(*domain.Vessel)
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	var req struct {
		Reminder1Minutes *int32 `json:"reminder1Minutes" validate:"omitempty,min=0"`
		Reminder2Minutes *int32 `json:"reminder2Minutes" validate:"omitempty,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 请求未给出时沿用个人设置，给出时顺便更新个人设置
	lead1 := myInfo.Reminder1Minutes
	lead2 := myInfo.Reminder2Minutes
	if req.Reminder1Minutes != nil {
		lead1 = *req.Reminder1Minutes
	}
	if req.Reminder2Minutes != nil {
		lead2 = *req.Reminder2Minutes
	}

	if lead1 != myInfo.Reminder1Minutes || lead2 != myInfo.Reminder2Minutes {
		myInfo.Reminder1Minutes = lead1
		myInfo.Reminder2Minutes = lead2
		if err := h.repository.UpdateUser(myInfo); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "更新提醒设置失败，请重试")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	events, err := watch.ComputeReminders(schedule, myInfo.ID, lead1, lead2, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, watch.ErrInvalidTime):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 补上投递所需的信息，调度核心不关心这些字段
	for i := range events {
		events[i].Email = myInfo.Email
		events[i].FullName = myInfo.FullName
		events[i].VesselName = vessel.Name
	}

	if err := watch.ApplyReminders(r.Context(), h.reminderSink, vessel.ID, myInfo.ID, events); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "值班提醒布防成功", events)
}

func (h *Handler) UpdateSlotCrew(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	slotIDParam := chi.URLParam(r, "slotID")
	slotID, err := strconv.ParseInt(slotIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "班次ID无效")
		return
	}

	var slot *domain.WatchSlot
	for i := range schedule.Slots {
		if schedule.Slots[i].ID == slotID {
			slot = &schedule.Slots[i]
			break
		}
	}
	if slot == nil {
		h.errorResponse(w, r, "班次不存在")
		return
	}

	var req struct {
		CrewIDs []int64 `json:"crewIDs" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateCrewSelection(req.CrewIDs, users); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	ordered, err := h.repository.GetUsersByIDs(req.CrewIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	crew := make([]domain.CrewAssignment, 0, len(ordered))
	for _, user := range ordered {
		crew = append(crew, domain.CrewAssignment{UserID: user.ID, UserName: user.FullName})
	}

	if err := h.repository.UpdateSlotCrew(slotID, crew); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slot.Crew = crew
	h.successResponse(w, r, "更新班次船员成功", slot)
}

// CheckIn 记录一次值班打卡，只允许当前值班班次上的船员打卡
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	schedule := r.Context().Value(ScheduleCtx).(*domain.WatchSchedule)

	slotIDParam := chi.URLParam(r, "slotID")
	slotID, err := strconv.ParseInt(slotIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "班次ID无效")
		return
	}

	activeSlot, err := watch.FindActiveSlot(schedule.Slots, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if activeSlot == nil || activeSlot.ID != slotID {
		h.errorResponse(w, r, "只能在当前值班时段内打卡")
		return
	}

	if err := h.repository.UpdateCrewCheckIn(slotID, myInfo.ID, time.Now()); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "您不在该班次的值班名单中")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "打卡成功", nil)
}
