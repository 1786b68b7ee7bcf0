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

type BillingHandler struct {
	svc *service.BillingService
	jwt *auth.JWTer
}

func NewBillingHandler(svc *service.BillingService, j *auth.JWTer) *BillingHandler {
	return &BillingHandler{svc: svc, jwt: j}
}

type createInvoiceReq struct {
	ReservationID *uint  `json:"reservationId"`
	LogID         *uint  `json:"logId"`
	Type          string `json:"type"`
	PaymentMethod string `json:"paymentMethod"`
}

type payReq struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func (h *BillingHandler) Mount(r *gin.RouterGroup) {
	e := ez.New(r.Group("/api/billing", mdw.AuthJWT(h.jwt)))

	invoiceReply := func(msg string, inv *domain.Invoice, err error) (ez.Reply, error) {
		if err != nil {
			return ez.Reply{}, err
		}
		return ez.Msg(msg, gin.H{"invoice": inv}), nil
	}
	invoicesReply := func(list []domain.Invoice, err error) (ez.Reply, error) {
		if err != nil {
			return ez.Reply{}, err
		}
		return ez.Msg("Invoices fetched successfully", gin.H{"invoices": list}), nil
	}

	ez.Register(e, ez.Action[createInvoiceReq]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, in *createInvoiceReq) (ez.Reply, error) {
			inv, err := h.svc.Create(c.Request.Context(), service.CreateInvoiceInput{
				ReservationID: in.ReservationID,
				LogID:         in.LogID,
				Type:          in.Type,
				PaymentMethod: in.PaymentMethod,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Created("Invoice created successfully", gin.H{"invoice": inv}), nil
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "",
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			return invoicesReply(h.svc.List(c.Request.Context()))
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
			inv, err := h.svc.Get(c.Request.Context(), mdw.ActorOf(c), id)
			return invoiceReply("Invoice fetched successfully", inv, err)
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
			return invoicesReply(h.svc.ListByUser(c.Request.Context(), mdw.ActorOf(c), uid))
		},
	})

	ez.Register(e, ez.Action[payReq]{
		Method: http.MethodPost,
		Path:   "/:id/pay",
		Binder: ez.BindJSON,
		Roles:  everyone,
		Handler: func(c *gin.Context, in *payReq) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			inv, err := h.svc.Pay(c.Request.Context(), mdw.ActorOf(c), id, in.PaymentMethod)
			return invoiceReply("Invoice paid successfully", inv, err)
		},
	})

	ez.Register(e, ez.Action[struct{}]{
		Method: http.MethodPost,
		Path:   "/:id/cancel",
		Roles:  staffAndAdmin,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			inv, err := h.svc.Cancel(c.Request.Context(), id)
			return invoiceReply("Invoice cancelled successfully", inv, err)
		},
	})
}
