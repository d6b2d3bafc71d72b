package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strconv"
	"time"

	appconfig "github.com/qtrix/the-final-stake/internal/config"
	"github.com/qtrix/the-final-stake/internal/game"
	"github.com/qtrix/the-final-stake/internal/web"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadTimeout = 30 * time.Second

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads the settlement report of a game whenever funds leave its
// escrow or the game reaches a final state.
type Archiver struct {
	client ObjectPutter
	engine *game.Engine
	bucket string
	prefix string
	async  bool
}

// NewS3Client builds a client for S3 or an S3-compatible store such as R2.
func NewS3Client(ctx context.Context, cfg appconfig.Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.ArchiveRegion),
	}
	if cfg.ArchiveAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ArchiveAccessKeyID, cfg.ArchiveSecretAccessKey, "",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ArchiveEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ArchiveEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func New(client ObjectPutter, engine *game.Engine, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		engine: engine,
		bucket: bucket,
		prefix: prefix,
		async:  true,
	}
}

// Handle is registered with Engine.Subscribe.
func (a *Archiver) Handle(changes *game.ChangeSet) {
	for _, gameID := range settledGames(changes) {
		if !a.async {
			a.upload(gameID)
			continue
		}
		go a.upload(gameID)
	}
}

func (a *Archiver) upload(gameID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	key, err := a.Upload(ctx, gameID)
	if err != nil {
		log.Printf("report upload failed game_id=%d error=%v", gameID, err)
		return
	}
	log.Printf("report uploaded game_id=%d key=%s", gameID, key)
}

// Upload renders the current report of a game and stores it under its key.
func (a *Archiver) Upload(ctx context.Context, gameID uint64) (string, error) {
	data, ok := web.ReportFor(a.engine, gameID)
	if !ok {
		return "", game.ErrGameNotFound
	}
	var buf bytes.Buffer
	if err := web.SettlementReport(data).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	key := ReportKey(a.prefix, data.GameID, data.Slug)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return key, nil
}

func ReportKey(prefix string, gameID uint64, slug string) string {
	name := strconv.FormatUint(gameID, 10)
	if slug != "" {
		name = slug
	}
	return path.Join(prefix, name+".html")
}

// settledGames lists games whose change set moved funds out of escrow or
// ended the game, in first-seen order.
func settledGames(changes *game.ChangeSet) []uint64 {
	seen := make(map[uint64]struct{})
	var out []uint64
	add := func(id uint64) {
		if _, ok := seen[id]; ok || id == 0 {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, payout := range changes.Payouts {
		add(payout.GameID)
	}
	for _, event := range changes.Events {
		switch event.Type {
		case game.EventGameCancelled, game.EventGameEndedNoWinner, game.EventPhase3WinnerDeclared, game.EventGameExpiredWithPenalty:
			add(event.GameID)
		}
	}
	return out
}
