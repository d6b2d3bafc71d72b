package server

import (
	"net/http"

	"github.com/qtrix/the-final-stake/internal/game"
	"github.com/qtrix/the-final-stake/internal/web"

	"github.com/gin-gonic/gin"
)

type listGamesQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=waiting_for_players ready_to_start in_progress completed cancelled expired expired_with_penalty"`
}

func (s *Server) handleGetRegistry(c *gin.Context) {
	registry, ok := s.engine.Store().Registry()
	if !ok {
		writeError(c, "get_registry", game.ErrRegistryNotInitialized)
		return
	}
	c.JSON(http.StatusOK, registry)
}

func (s *Server) handleListGames(c *gin.Context) {
	var query listGamesQuery
	if !bindQuery(c, &query) {
		return
	}
	games := s.engine.Store().ListGames(game.Status(query.Status))
	page, start, end := paginate(query.pageQuery, len(games))
	summaries := make([]web.GameSummary, 0, end-start)
	for _, g := range games[start:end] {
		summaries = append(summaries, web.Summarize(g))
	}
	c.JSON(http.StatusOK, gin.H{"games": summaries, "pagination": page})
}

func (s *Server) handleGetGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	g, ok := s.engine.Store().GetGame(uri.GameID)
	if !ok {
		writeError(c, "get_game", game.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game":          g,
		"escrow":        g.Escrow(),
		"ready_players": readyPlayers(s.engine.Store().ListReady(uri.GameID)),
	})
}

func readyPlayers(records []*game.ReadyRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		if record.Ready {
			out = append(out, record.Player)
		}
	}
	return out
}

func (s *Server) handleGetPlayerState(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	state, ok := s.engine.Store().GetPlayerState(uri.GameID, uri.Player)
	if !ok {
		writeError(c, "get_player_state", game.ErrPlayerStateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": state})
}

func (s *Server) handleGetPool(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	pool, ok := s.engine.Store().GetPool(uri.GameID)
	if !ok {
		writeError(c, "get_pool", game.ErrPoolStateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool": pool,
		"rates": gin.H{
			"mining":  pool.MiningRate().String(),
			"farming": pool.FarmingRate().String(),
			"trading": pool.TradingRate().String(),
			"social":  pool.SocialRate().String(),
		},
	})
}

func (s *Server) handleListChallenges(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	if _, ok := s.engine.Store().GetGame(uri.GameID); !ok {
		writeError(c, "list_challenges", game.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": s.engine.Store().ListChallenges(uri.GameID)})
}

func (s *Server) handleGetChallenge(c *gin.Context) {
	var uri challengeURI
	if !bindURI(c, &uri) {
		return
	}
	challenge, ok := s.engine.Store().GetChallenge(uri.ChallengeID)
	if !ok {
		writeError(c, "get_challenge", game.ErrChallengeNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

func (s *Server) handleListPayouts(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	if _, ok := s.engine.Store().GetGame(uri.GameID); !ok {
		writeError(c, "list_payouts", game.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": s.engine.Store().ListPayouts(uri.GameID)})
}
