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

type SlotHandler struct {
	svc *service.SlotService
	jwt *auth.JWTer
}

func NewSlotHandler(svc *service.SlotService, j *auth.JWTer) *SlotHandler {
	return &SlotHandler{svc: svc, jwt: j}
}

type addSlotReq struct {
	Location string `json:"location" binding:"required"`
	Type     string `json:"type"     binding:"required"`
}

type updateSlotReq struct {
	Location   *string `json:"location"`
	Type       *string `json:"type"`
	IsOccupied *bool   `json:"isOccupied"`
}

type occupancyReq struct {
	Occupied *bool `json:"occupied" binding:"required"`
}

type occupancyQuery struct {
	SlotID     uint  `form:"slotId"     binding:"required"`
	IsOccupied *bool `form:"isOccupied" binding:"required"`
}

var (
	adminOnly     = []domain.Role{domain.RoleAdmin}
	staffAndAdmin = []domain.Role{domain.RoleStaff, domain.RoleAdmin}
)

func (h *SlotHandler) Mount(r *gin.RouterGroup) {
	g := r.Group("/api/slots")
	pub := ez.New(g)
	authed := ez.New(g.Group("", mdw.AuthJWT(h.jwt)))

	slotReply := func(msg string) func(*domain.Slot, error) (ez.Reply, error) {
		return func(s *domain.Slot, err error) (ez.Reply, error) {
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg(msg, gin.H{"slot": s}), nil
		}
	}
	slotsReply := func(msg string) func([]domain.Slot, error) (ez.Reply, error) {
		return func(s []domain.Slot, err error) (ez.Reply, error) {
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg(msg, gin.H{"slots": s}), nil
		}
	}

	ez.Register(authed, ez.Action[addSlotReq]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *addSlotReq) (ez.Reply, error) {
			s, err := h.svc.Add(c.Request.Context(), in.Location, in.Type)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Created("Slot added successfully", gin.H{"slot": s}), nil
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodDelete,
		Path:   "/:slotId",
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "slotId")
			if err != nil {
				return ez.Reply{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Slot deleted successfully", nil), nil
		},
	})

	ez.Register(authed, ez.Action[updateSlotReq]{
		Method: http.MethodPut,
		Path:   "/:slotId",
		Binder: ez.BindJSON,
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, in *updateSlotReq) (ez.Reply, error) {
			id, err := ez.ParamID(c, "slotId")
			if err != nil {
				return ez.Reply{}, err
			}
			return slotReply("Slot status updated")(h.svc.Update(c.Request.Context(), id, service.SlotUpdate{
				Location: in.Location, Type: in.Type, Occupied: in.IsOccupied,
			}))
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/available",
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			return slotsReply("Available slots fetched")(h.svc.ListAvailable(c.Request.Context()))
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "",
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			return slotsReply("All slots retrieved successfully")(h.svc.ListAll(c.Request.Context()))
		},
	})

	ez.Register(pub, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/available/type/:type",
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			return slotsReply("Available slots fetched")(h.svc.ListAvailableByType(c.Request.Context(), c.Param("type")))
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:slotId",
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "slotId")
			if err != nil {
				return ez.Reply{}, err
			}
			return slotReply("Slot fetched successfully")(h.svc.Get(c.Request.Context(), id))
		},
	})

	ez.Register(authed, ez.Action[occupancyReq]{
		Method: http.MethodPut,
		Path:   "/slot/:slotId",
		Binder: ez.BindJSON,
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, in *occupancyReq) (ez.Reply, error) {
			id, err := ez.ParamID(c, "slotId")
			if err != nil {
				return ez.Reply{}, err
			}
			return slotReply("Slot status updated")(h.svc.SetOccupied(c.Request.Context(), id, *in.Occupied))
		},
	})

	// occupancy switches called by reservation-service and vehicle-log-service
	for path, occupied := range map[string]bool{"/mark-occupied/:slotId": true, "/mark-available/:slotId": false} {
		occupied := occupied
		msg := "Slot marked as available"
		if occupied {
			msg = "Slot marked as occupied"
		}
		ez.Register(authed, ez.Action[struct{}]{
			Method: http.MethodPut,
			Path:   path,
			Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
				id, err := ez.ParamID(c, "slotId")
				if err != nil {
					return ez.Reply{}, err
				}
				return slotReply(msg)(h.svc.SetOccupied(c.Request.Context(), id, occupied))
			},
		})
	}

	ez.Register(authed, ez.Action[occupancyQuery]{
		Method: http.MethodPut,
		Path:   "/update-occupancy",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *occupancyQuery) (ez.Reply, error) {
			return slotReply("Slot occupancy updated")(h.svc.SetOccupied(c.Request.Context(), in.SlotID, *in.IsOccupied))
		},
	})
}
