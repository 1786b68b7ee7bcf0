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

type UserHandler struct {
	svc *service.UserService
	jwt *auth.JWTer
}

func NewUserHandler(svc *service.UserService, j *auth.JWTer) *UserHandler {
	return &UserHandler{svc: svc, jwt: j}
}

type registerReq struct {
	Name     string `json:"name"     binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserReq struct {
	Name     *string `json:"name"     binding:"omitempty,max=64"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password"`
}

func (h *UserHandler) Mount(r *gin.RouterGroup) {
	g := r.Group("/api/user")
	pub := ez.New(g)
	authed := ez.New(g.Group("", mdw.AuthJWT(h.jwt)))

	ez.Register(pub, ez.Action[registerReq]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerReq) (ez.Reply, error) {
			u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Created("User registered successfully", gin.H{"user": u}), nil
		},
	})

	ez.Register(pub, ez.Action[loginReq]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginReq) (ez.Reply, error) {
			tok, u, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Login successful", gin.H{"token": tok, "user": u}), nil
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/profile",
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			u, err := h.svc.Profile(c.Request.Context(), mdw.ActorOf(c))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Profile fetched successfully", gin.H{"user": u}), nil
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/all",
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			users, err := h.svc.List(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("Users fetched successfully", gin.H{"users": users}), nil
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:id",
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			u, err := h.svc.Get(c.Request.Context(), mdw.ActorOf(c), id)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("User fetched successfully", gin.H{"user": u}), nil
		},
	})

	ez.Register(authed, ez.Action[updateUserReq]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *updateUserReq) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			u, err := h.svc.Update(c.Request.Context(), mdw.ActorOf(c), id, service.UpdateUserInput{
				Name: in.Name, Email: in.Email, Password: in.Password,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("User updated successfully", gin.H{"user": u}), nil
		},
	})

	ez.Register(authed, ez.Action[struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ez.Reply{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return ez.Reply{}, err
			}
			return ez.Msg("User deleted successfully", nil), nil
		},
	})
}
