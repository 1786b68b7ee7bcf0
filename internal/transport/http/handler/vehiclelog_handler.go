package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/domain"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/ez"
	mdw "go-parking-lot/internal/transport/http/middleware"
)

type VehicleLogHandler struct {
	svc *service.VehicleLogService
	jwt *auth.JWTer
}

func NewVehicleLogHandler(svc *service.VehicleLogService, j *auth.JWTer) *VehicleLogHandler {
	return &VehicleLogHandler{svc: svc, jwt: j}
}

type entryReq struct {
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	UserID        uint   `json:"userId"        binding:"required"`
	SlotID        uint   `json:"slotId"        binding:"required"`
}

type exitReq struct {
	LogID uint `json:"logId" binding:"required"`
}

var everyone = []domain.Role{domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer}

func logsBody(logs []domain.VehicleLog) gin.H { return gin.H{"count": len(logs), "logs": logs} }

func (h *VehicleLogHandler) Mount(r *gin.RouterGroup) {
	e := ez.New(r.Group("/api/vehicle-log", mdw.AuthJWT(h.jwt)))

	ez.Register(e, ez.Action[entryReq]{
		Method: http.MethodPost,
		Path:   "/entry",
		Binder: ez.BindJSON,
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, in *entryReq) (ez.Reply, error) {
			l, err := h.svc.Entry(c.Request.Context(), service.EntryInput{
				VehicleNumber: in.VehicleNumber, UserID: in.UserID, SlotID: in.SlotID,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Created("Vehicle entry recorded", gin.H{"log": l}), nil
		},
	})

	ez.Register(e, ez.Action[exitReq]{
		Method: http.MethodPost,
		Path:   "/exit",
		Binder: ez.BindJSON,
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, in *exitReq) (ez.Reply, error) {
			l, err := h.svc.Exit(c.Request.Context(), in.LogID)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Vehicle exit recorded", gin.H{"log": l}), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "",
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			logs, err := h.svc.List(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(logsBody(logs)), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:id",
		Roles:  everyone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			l, err := h.svc.Get(c.Request.Context(), mdw.ActorOf(c), id)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(l), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/user/:userId",
		Roles:  everyone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			uid, err := ez.ParamID(c, "userId")
			if err != nil {
				return ez.Reply{}, err
			}
			logs, err := h.svc.ListByUser(c.Request.Context(), mdw.ActorOf(c), uid)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.JSON(logsBody(logs)), nil
		},
	})
}
