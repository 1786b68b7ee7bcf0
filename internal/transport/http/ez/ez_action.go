// Package ez registers small typed actions on a gin group: bind, role check, run, render.
package ez

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
	mdw "go-parking-lot/internal/transport/http/middleware"
	resp "go-parking-lot/internal/transport/http/response"
)

type Binder string

const (
	BindNone  Binder = ""
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Reply is what an action renders on success.
type Reply struct {
	Status int
	Body   any
}

// Msg renders {"message": msg, ...fields} with 200.
func Msg(msg string, fields gin.H) Reply {
	return Reply{Status: http.StatusOK, Body: envelope(msg, fields)}
}

// Created renders {"message": msg, ...fields} with 201.
func Created(msg string, fields gin.H) Reply {
	return Reply{Status: http.StatusCreated, Body: envelope(msg, fields)}
}

// JSON renders v as is.
func JSON(v any) Reply { return Reply{Status: http.StatusOK, Body: v} }

func envelope(msg string, fields gin.H) gin.H {
	body := gin.H{"message": msg}
	for k, v := range fields {
		body[k] = v
	}
	return body
}

// Action: I is the bound input.
type Action[I any] struct {
	Method  string
	Path    string
	Binder  Binder
	Roles   []domain.Role // empty: any authenticated (or public) caller the group admits
	Handler func(c *gin.Context, in *I) (Reply, error)
}

func Register[I any](e EZ, a Action[I]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Fail(c, errs.BadRequest(bindMessage(bindErr)))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if out.Status == 0 {
			out.Status = http.StatusOK
		}
		if out.Body == nil {
			c.Status(out.Status)
			return
		}
		c.JSON(out.Status, out.Body)
	}

	chain := []gin.HandlerFunc{h}
	if len(a.Roles) > 0 {
		chain = append([]gin.HandlerFunc{mdw.RequireRoles(a.Roles...)}, chain...)
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, chain...)
}

func bindMessage(err error) string {
	msg := err.Error()
	if msg == "EOF" {
		return "Request body is required"
	}
	return "Invalid request: " + msg
}

// ParamID reads a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}
