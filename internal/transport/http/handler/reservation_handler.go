package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/domain"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/ez"
	mdw "go-parking-lot/internal/transport/http/middleware"
	"go-parking-lot/pkg/utils"
)

type ReservationHandler struct {
	svc *service.ReservationService
	jwt *auth.JWTer
}

func NewReservationHandler(svc *service.ReservationService, j *auth.JWTer) *ReservationHandler {
	return &ReservationHandler{svc: svc, jwt: j}
}

type createReservationReq struct {
	UserID        uint           `json:"userId"`
	SlotID        uint           `json:"slotId"        binding:"required"`
	VehicleNumber string         `json:"vehicleNumber" binding:"required"`
	StartTime     utils.FlexTime `json:"startTime"`
	EndTime       utils.FlexTime `json:"endTime"`
}

type updateReservationReq struct {
	VehicleNumber *string         `json:"vehicleNumber"`
	StartTime     *utils.FlexTime `json:"startTime"`
	EndTime       *utils.FlexTime `json:"endTime"`
}

func flex(t *utils.FlexTime) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return &t.Time
}

var customerAndAdmin = []domain.Role{domain.RoleAdmin, domain.RoleCustomer}

func (h *ReservationHandler) Mount(r *gin.RouterGroup) {
	e := ez.New(r.Group("/api/reservations", mdw.AuthJWT(h.jwt)))

	ez.Register(e, ez.Action[createReservationReq]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleCustomer},
		Handler: func(c *gin.Context, in *createReservationReq) (ez.Reply, error) {
			res, err := h.svc.Create(c.Request.Context(), mdw.ActorOf(c), service.CreateReservationInput{
				UserID:        in.UserID,
				SlotID:        in.SlotID,
				VehicleNumber: in.VehicleNumber,
				Start:         in.StartTime.Time,
				End:           in.EndTime.Time,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Created("Reservation created successfully", gin.H{"reservation": res}), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "",
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			list, err := h.svc.List(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(list), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:id",
		Roles:  customerAndAdmin,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			res, err := h.svc.Get(c.Request.Context(), mdw.ActorOf(c), id)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(res), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  customerAndAdmin,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			if err := h.svc.Cancel(c.Request.Context(), mdw.ActorOf(c), id); err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Reservation cancelled successfully", nil), nil
		},
	})

	ez.Register(e, ez.Action[updateReservationReq]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  customerAndAdmin,
		Handler: func(c *gin.Context, in *updateReservationReq) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			res, err := h.svc.Update(c.Request.Context(), mdw.ActorOf(c), id, service.UpdateReservationInput{
				VehicleNumber: in.VehicleNumber,
				Start:         flex(in.StartTime),
				End:           flex(in.EndTime),
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Reservation updated successfully", gin.H{"reservation": res}), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/user/:userId",
		Roles:  customerAndAdmin,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			uid, err := ez.ParamID(c, "userId")
			if err != nil {
				return ez.Reply{}, err
			}
			list, err := h.svc.ListByUser(c.Request.Context(), mdw.ActorOf(c), uid)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(list), nil
		},
	})
}
