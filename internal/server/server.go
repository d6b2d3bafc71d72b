package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/qtrix/the-final-stake/internal/config"
	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	engine *game.Engine
	db     *gorm.DB
	ws     *wsHub
	cfg    config.Config
}

// New wires the HTTP layer to engine. When conn is set, every committed
// change set is written to Postgres before it becomes visible.
func New(engine *game.Engine, conn *gorm.DB, cfg config.Config) *Server {
	registerValidators()
	s := &Server{
		engine: engine,
		db:     conn,
		ws:     newWSHub(),
		cfg:    cfg,
	}
	if conn != nil {
		engine.Store().SetCommitter(&committer{db: conn})
	}
	engine.Subscribe(s.broadcastChanges)
	return s
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/games/:gameID/report", s.handleReportView)
	router.GET("/ws/games/:gameID", s.handleWebsocket)

	api := router.Group("/api")
	api.GET("/registry", s.handleGetRegistry)
	api.GET("/games", s.handleListGames)
	api.GET("/games/:gameID", s.handleGetGame)
	api.GET("/games/:gameID/players/:player", s.handleGetPlayerState)
	api.GET("/games/:gameID/pool", s.handleGetPool)
	api.GET("/games/:gameID/challenges", s.handleListChallenges)
	api.GET("/games/:gameID/payouts", s.handleListPayouts)
	api.GET("/challenges/:challengeID", s.handleGetChallenge)

	authed := api.Group("", requireCaller())
	authed.POST("/registry", s.handleInitRegistry)
	authed.POST("/games", s.handleCreateGame)

	games := authed.Group("/games/:gameID")
	games.POST("/enter", s.gameAction("enter_game", s.engine.EnterGame))
	games.POST("/start", s.gameAction("start_game", s.engine.StartGame))
	games.POST("/cancel", s.gameAction("cancel_game", s.engine.CancelGame))
	games.POST("/refund", s.gameAction("claim_refund", s.engine.ClaimRefund))
	games.POST("/force-refund", s.gameAction("force_refund", s.engine.ForceRefund))
	games.POST("/advance", s.gameAction("advance_phase", s.engine.AdvancePhase))
	games.POST("/player-state", s.gameAction("init_player_state", s.engine.InitPlayerState))
	games.POST("/pool", s.gameAction("init_pool_state", s.engine.InitPoolState))
	games.POST("/allocations", s.handleSubmitAllocations)
	games.POST("/rewards/claim", s.gameAction("claim_rewards", s.engine.ClaimRewards))
	games.POST("/rewards/phase-end", s.gameAction("claim_phase_end_rewards", s.engine.ClaimPhaseEndRewards))
	games.POST("/challenges", s.handleCreateChallenge)
	games.POST("/phase3/advance", s.gameAction("advance_to_phase3", s.engine.AdvanceToPhase3))
	games.POST("/phase3/ready", s.gameAction("mark_ready_phase3", s.engine.MarkReadyPhase3))
	games.POST("/phase3/start", s.gameAction("start_phase3_game", s.engine.StartPhase3Game))
	games.POST("/phase3/winner", s.handleSubmitPhase3Winner)
	games.POST("/phase3/claim", s.gameAction("claim_phase3_prize", s.engine.ClaimPhase3Prize))
	games.POST("/fee/claim", s.gameAction("claim_platform_fee", s.engine.ClaimPlatformFee))

	challenges := authed.Group("/challenges/:challengeID")
	challenges.POST("/respond", s.handleRespondChallenge)
	challenges.POST("/ready", s.challengeAction("ready_for_game", s.engine.ReadyForGame))
	challenges.POST("/start", s.challengeAction("start_mini_game", s.engine.StartMiniGame))
	challenges.POST("/claim", s.handleClaimMiniGameWin)

	admin := authed.Group("/admin/games/:gameID")
	admin.POST("/start", s.gameAction("admin_start_game", s.engine.AdminStartGame))
	admin.POST("/advance", s.gameAction("admin_advance_phase", s.engine.AdminAdvancePhase))
	admin.POST("/close-no-ready", s.gameAction("admin_close_purge_no_ready", s.engine.AdminClosePurgeNoReady))

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Printf("request failed method=%s path=%s status=%d duration=%s", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(started))
		}
	}
}

func gameKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
