package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/gin-gonic/gin"
)

func statusForKind(kind game.Kind) int {
	switch kind {
	case game.KindValidation:
		return http.StatusBadRequest
	case game.KindAuthorization:
		return http.StatusForbidden
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindPrecondition, game.KindTiming:
		return http.StatusConflict
	case game.KindEconomic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders an engine error. Errors outside the domain are logged
// and reported without detail.
func writeError(c *gin.Context, op string, err error) {
	var domainErr *game.Error
	if !errors.As(err, &domainErr) {
		log.Printf("operation failed op=%s error=%v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{
		"error": domainErr.Message,
		"code":  domainErr.Code,
		"kind":  domainErr.Kind,
	}
	if len(domainErr.Metadata) > 0 {
		body["metadata"] = domainErr.Metadata
	}
	if domainErr.Cause != nil {
		log.Printf("operation failed op=%s code=%s cause=%v", op, domainErr.Code, domainErr.Cause)
	}
	c.JSON(statusForKind(domainErr.Kind), body)
}

func writeReceipt(c *gin.Context, status int, receipt *game.Receipt) {
	events := receipt.Events
	if events == nil {
		events = []game.Event{}
	}
	payouts := receipt.Payouts
	if payouts == nil {
		payouts = []game.Payout{}
	}
	body := gin.H{
		"events":  events,
		"payouts": payouts,
	}
	if receipt.Registry != nil {
		body["registry"] = receipt.Registry
	}
	if receipt.Game != nil {
		body["game"] = receipt.Game
	}
	if receipt.Player != nil {
		body["player"] = receipt.Player
	}
	if receipt.Pool != nil {
		body["pool"] = receipt.Pool
	}
	if receipt.Challenge != nil {
		body["challenge"] = receipt.Challenge
	}
	c.JSON(status, body)
}
