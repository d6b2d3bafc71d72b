package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	mu      sync.Mutex
	objects map[string]string
	err     error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func newEngine(t *testing.T) (*game.Engine, uint64) {
	t.Helper()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	engine := game.NewEngine(game.NewStore(), func() time.Time { return now })
	_, err := engine.InitRegistry(ctx, "admin")
	require.NoError(t, err)
	receipt, err := engine.CreateGame(ctx, "creator", game.CreateGameParams{
		Name:          "Archive Night",
		EntryFee:      25,
		MaxPlayers:    4,
		StartTime:     engine.Now() + 600,
		DurationHours: 2,
	})
	require.NoError(t, err)
	_, err = engine.EnterGame(ctx, receipt.Game.ID, "alice")
	require.NoError(t, err)
	return engine, receipt.Game.ID
}

func TestCancelledGameReportIsUploadedAfterRefund(t *testing.T) {
	engine, id := newEngine(t)
	putter := &fakePutter{objects: make(map[string]string)}
	archiver := New(putter, engine, "reports-bucket", "reports")
	archiver.async = false
	engine.Subscribe(archiver.Handle)

	ctx := context.Background()
	_, err := engine.CancelGame(ctx, id, "creator")
	require.NoError(t, err)
	_, err = engine.ClaimRefund(ctx, id, "alice")
	require.NoError(t, err)

	report, ok := putter.objects["reports-bucket/reports/archive-night-1.html"]
	require.True(t, ok, "uploaded keys: %v", putter.objects)
	assert.Contains(t, report, "cancelled")
	assert.Contains(t, report, "<td>alice</td><td>refund</td><td>25</td>")
}

func TestJoiningDoesNotUpload(t *testing.T) {
	engine, id := newEngine(t)
	putter := &fakePutter{objects: make(map[string]string)}
	archiver := New(putter, engine, "bucket", "")
	archiver.async = false
	engine.Subscribe(archiver.Handle)

	_, err := engine.EnterGame(context.Background(), id, "bob")
	require.NoError(t, err)
	assert.Empty(t, putter.objects)
}

func TestUploadErrors(t *testing.T) {
	engine, id := newEngine(t)
	archiver := New(&fakePutter{err: errors.New("access denied")}, engine, "bucket", "reports")

	_, err := archiver.Upload(context.Background(), id)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "access denied"))

	_, err = archiver.Upload(context.Background(), 99)
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "reports/final-stake-3.html", ReportKey("reports", 3, "final-stake-3"))
	assert.Equal(t, "7.html", ReportKey("", 7, ""))
}
