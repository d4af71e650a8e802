package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

// Confirmation inputs of destructive requests.
const (
	ConfirmQuery     = "confirm"
	ConfirmHeader    = "X-Confirm"
	ManagerPinHeader = "X-Manager-Pin"
)

// ConfirmPolicy turns request confirmation into a service.Confirmer. When a
// manager PIN hash is set, a confirmed request must also carry the PIN.
type ConfirmPolicy struct {
	pinHash string
}

// NewConfirmPolicy creates a policy. An empty hash disables the PIN check.
func NewConfirmPolicy(pinHash string) *ConfirmPolicy {
	return &ConfirmPolicy{pinHash: pinHash}
}

// Confirmer returns the answer this request gives to a destructive action.
// An unconfirmed request declines; a confirmed one with a bad PIN is an error.
func (p *ConfirmPolicy) Confirmer(c *gin.Context) (service.Confirmer, error) {
	if !requestConfirmed(c) {
		return service.NeverConfirm, nil
	}
	if p != nil && p.pinHash != "" {
		pin := c.GetHeader(ManagerPinHeader)
		if pin == "" || bcrypt.CompareHashAndPassword([]byte(p.pinHash), []byte(pin)) != nil {
			return nil, apperror.ErrInvalidManagerPin
		}
	}
	return service.AlwaysConfirm, nil
}

func requestConfirmed(c *gin.Context) bool {
	if v := c.GetHeader(ConfirmHeader); v != "" {
		return truthy(v)
	}
	return truthy(c.Query(ConfirmQuery))
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y":
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// saleIDParam parses the :id path parameter of sale routes.
func saleIDParam(c *gin.Context) (entity.SaleID, bool) {
	id, err := entity.ParseSaleID(c.Param("id"))
	return id, err == nil
}

func categoryParam(c *gin.Context) entity.Category {
	return entity.Category(c.Param("category"))
}
