package server

import (
	"context"
	"log"
	"net/http"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Name          string `json:"name" binding:"required,gamename"`
	EntryFee      uint64 `json:"entry_fee" binding:"required,gt=0"`
	MaxPlayers    int    `json:"max_players" binding:"required"`
	StartTime     int64  `json:"start_time" binding:"required"`
	DurationHours int    `json:"duration_hours" binding:"required"`
}

var createGameMessages = bindMessages{
	"Name": {
		"required": "name is required",
		"gamename": "name must be 1-64 printable characters",
	},
	"EntryFee": {
		"required": "entry_fee must be greater than zero",
		"gt":       "entry_fee must be greater than zero",
	},
	"MaxPlayers":    {"required": "max_players is required"},
	"StartTime":     {"required": "start_time is required"},
	"DurationHours": {"required": "duration_hours is required"},
}

type allocationsRequest struct {
	Mining   uint64 `json:"mining"`
	Farming  uint64 `json:"farming"`
	Trading  uint64 `json:"trading"`
	Research uint64 `json:"research"`
	Social   uint64 `json:"social"`
}

type createChallengeRequest struct {
	Opponent  string `json:"opponent" binding:"required,identity"`
	Timestamp int64  `json:"timestamp" binding:"gte=0"`
	BetAmount uint64 `json:"bet_amount"`
	Type      string `json:"type" binding:"required,minigame"`
}

var createChallengeMessages = bindMessages{
	"Opponent": {
		"required": "opponent is required",
		"identity": "opponent is not a valid account id",
	},
	"Type": {
		"required": "type is required",
		"minigame": "type must be one of crypto_trivia, rock_paper_scissors, speed_trading, meme_battle",
	},
}

type respondChallengeRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type winnerRequest struct {
	Winner string `json:"winner" binding:"required,identity"`
}

var winnerMessages = bindMessages{
	"Winner": {
		"required": "winner is required",
		"identity": "winner is not a valid account id",
	},
}

// gameAction adapts an engine operation that only needs the game and the caller.
func (s *Server) gameAction(op string, fn func(ctx context.Context, gameID uint64, caller string) (*game.Receipt, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri gameURI
		if !bindURI(c, &uri) {
			return
		}
		receipt, err := fn(c.Request.Context(), uri.GameID, caller(c))
		if err != nil {
			writeError(c, op, err)
			return
		}
		logReceipt(op, caller(c), receipt)
		writeReceipt(c, http.StatusOK, receipt)
	}
}

func (s *Server) challengeAction(op string, fn func(ctx context.Context, challengeID, caller string) (*game.Receipt, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri challengeURI
		if !bindURI(c, &uri) {
			return
		}
		receipt, err := fn(c.Request.Context(), uri.ChallengeID, caller(c))
		if err != nil {
			writeError(c, op, err)
			return
		}
		logReceipt(op, caller(c), receipt)
		writeReceipt(c, http.StatusOK, receipt)
	}
}

func logReceipt(op, caller string, receipt *game.Receipt) {
	for _, event := range receipt.Events {
		log.Printf("%s op=%s caller=%s game_id=%d", event.Type, op, caller, event.GameID)
	}
}

func (s *Server) handleInitRegistry(c *gin.Context) {
	receipt, err := s.engine.InitRegistry(c.Request.Context(), caller(c))
	if err != nil {
		writeError(c, "init_registry", err)
		return
	}
	logReceipt("init_registry", caller(c), receipt)
	writeReceipt(c, http.StatusCreated, receipt)
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req, createGameMessages, "invalid game") {
		return
	}
	name, _ := validateGameName(req.Name)
	receipt, err := s.engine.CreateGame(c.Request.Context(), caller(c), game.CreateGameParams{
		Name:          name,
		EntryFee:      req.EntryFee,
		MaxPlayers:    req.MaxPlayers,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		writeError(c, "create_game", err)
		return
	}
	log.Printf("game created game_id=%d slug=%s creator=%s", receipt.Game.ID, receipt.Game.Slug, caller(c))
	writeReceipt(c, http.StatusCreated, receipt)
}

func (s *Server) handleSubmitAllocations(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req allocationsRequest
	if !bindJSON(c, &req, nil, "invalid allocations") {
		return
	}
	receipt, err := s.engine.SubmitAllocations(c.Request.Context(), uri.GameID, caller(c), game.Allocations{
		Mining:   req.Mining,
		Farming:  req.Farming,
		Trading:  req.Trading,
		Research: req.Research,
		Social:   req.Social,
	})
	if err != nil {
		writeError(c, "submit_allocations", err)
		return
	}
	writeReceipt(c, http.StatusOK, receipt)
}

func (s *Server) handleCreateChallenge(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req createChallengeRequest
	if !bindJSON(c, &req, createChallengeMessages, "invalid challenge") {
		return
	}
	receipt, err := s.engine.CreateChallenge(c.Request.Context(), uri.GameID, caller(c), game.CreateChallengeParams{
		Opponent:  req.Opponent,
		Timestamp: req.Timestamp,
		BetAmount: req.BetAmount,
		Type:      game.MiniGameType(req.Type),
	})
	if err != nil {
		writeError(c, "create_challenge", err)
		return
	}
	log.Printf("challenge created game_id=%d challenge_id=%s challenger=%s opponent=%s", uri.GameID, receipt.Challenge.ID, caller(c), req.Opponent)
	writeReceipt(c, http.StatusCreated, receipt)
}

func (s *Server) handleRespondChallenge(c *gin.Context) {
	var uri challengeURI
	if !bindURI(c, &uri) {
		return
	}
	var req respondChallengeRequest
	if !bindJSON(c, &req, bindMessages{"Accept": {"required": "accept is required"}}, "") {
		return
	}
	receipt, err := s.engine.RespondChallenge(c.Request.Context(), uri.ChallengeID, caller(c), *req.Accept)
	if err != nil {
		writeError(c, "respond_challenge", err)
		return
	}
	logReceipt("respond_challenge", caller(c), receipt)
	writeReceipt(c, http.StatusOK, receipt)
}

func (s *Server) handleClaimMiniGameWin(c *gin.Context) {
	var uri challengeURI
	if !bindURI(c, &uri) {
		return
	}
	var req winnerRequest
	if !bindJSON(c, &req, winnerMessages, "") {
		return
	}
	receipt, err := s.engine.ClaimMiniGameWin(c.Request.Context(), uri.ChallengeID, caller(c), req.Winner)
	if err != nil {
		writeError(c, "claim_mini_game_win", err)
		return
	}
	logReceipt("claim_mini_game_win", caller(c), receipt)
	writeReceipt(c, http.StatusOK, receipt)
}

func (s *Server) handleSubmitPhase3Winner(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req winnerRequest
	if !bindJSON(c, &req, winnerMessages, "") {
		return
	}
	receipt, err := s.engine.SubmitPhase3Winner(c.Request.Context(), uri.GameID, caller(c), req.Winner)
	if err != nil {
		writeError(c, "submit_phase3_winner", err)
		return
	}
	logReceipt("submit_phase3_winner", caller(c), receipt)
	writeReceipt(c, http.StatusOK, receipt)
}
