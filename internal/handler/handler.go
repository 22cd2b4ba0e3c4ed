package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/config"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/repository"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	reminderSink  watch.NotificationSink

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, sink watch.NotificationSink) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		reminderSink:  sink,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Patch("/reminders", h.UpdateMyReminders)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // 船员之间可以互相查看基本信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialCaptain).With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialCaptain).With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/vessels", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Post("/", h.CreateVessel)
			r.Get("/", h.GetAllVessels)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.vessel)
				r.Get("/", h.GetVessel)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Patch("/", h.UpdateVessel)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Delete("/", h.DeleteVessel)

				r.Route("/schedule", func(r chi.Router) {
					// 一艘船同一时刻只有一份生效的排班表，重新生成是整体替换
					r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain, domain.RoleFirstMate})).Post("/generate", h.GenerateSchedule)

					r.Group(func(r chi.Router) {
						r.Use(h.schedule)
						r.Get("/", h.GetSchedule)
						r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Patch("/settings", h.UpdateScheduleSettings)
						r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain})).Delete("/", h.DeleteSchedule)
						r.Get("/active-slot", h.GetActiveSlot)
						r.Get("/liveness", h.GetLiveness)
						r.With(h.myInfo, h.preventLeftCrew).Post("/reminders", h.ArmReminders)
						r.With(h.RequiredRole([]domain.Role{domain.RoleCaptain, domain.RoleFirstMate})).Patch("/slots/{slotID}/crew", h.UpdateSlotCrew)
						r.With(h.myInfo, h.preventLeftCrew).Post("/slots/{slotID}/check-in", h.CheckIn)
					})
				})
			})
		})
	})
}
