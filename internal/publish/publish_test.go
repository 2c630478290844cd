package publish

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "carousel-studio/internal/common/errors"
	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type recordedCall struct {
	op           string
	imageURL     string
	caption      string
	carouselItem bool
	childIDs     []string
	creationID   string
}

type fakeGraphAPI struct {
	calls   []recordedCall
	failOn  string
	failErr error
	nextID  int
}

func (f *fakeGraphAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

func (f *fakeGraphAPI) CreateImageContainer(_ context.Context, _, _, imageURL, caption string, carouselItem bool) (string, error) {
	f.calls = append(f.calls, recordedCall{op: "image", imageURL: imageURL, caption: caption, carouselItem: carouselItem})
	if f.failOn == "image" {
		return "", f.failErr
	}
	return f.id("item"), nil
}

func (f *fakeGraphAPI) CreateCarouselContainer(_ context.Context, _, _ string, childIDs []string, caption string) (string, error) {
	f.calls = append(f.calls, recordedCall{op: "carousel", childIDs: append([]string(nil), childIDs...), caption: caption})
	if f.failOn == "carousel" {
		return "", f.failErr
	}
	return f.id("root"), nil
}

func (f *fakeGraphAPI) PublishContainer(_ context.Context, _, _, creationID string) (string, error) {
	f.calls = append(f.calls, recordedCall{op: "publish", creationID: creationID})
	if f.failOn == "publish" {
		return "", f.failErr
	}
	return f.id("media"), nil
}

type fakeUploader struct {
	uploaded []int
	failAt   int
}

func (f *fakeUploader) Upload(_ context.Context, asset models.PublishableAsset) (models.RemoteImageRef, error) {
	if f.failAt > 0 && len(f.uploaded)+1 == f.failAt {
		return models.RemoteImageRef{}, errors.New("hosting unavailable")
	}
	f.uploaded = append(f.uploaded, asset.Ordinal)
	return models.RemoteImageRef{PublicURL: fmt.Sprintf("https://img.example/%d.png", asset.Ordinal)}, nil
}

type recordingSink struct {
	messages []string
}

func (s *recordingSink) Notify(message string) {
	s.messages = append(s.messages, message)
}

func newTestPublisher(t *testing.T, graph *fakeGraphAPI, uploader *fakeUploader) *Publisher {
	t.Helper()
	return NewPublisher(uploader, graph, 0, logger.NewTestLogger(t))
}

func makeAssets(n int) []models.PublishableAsset {
	assets := make([]models.PublishableAsset, n)
	for i := range assets {
		assets[i] = models.PublishableAsset{Ordinal: i, Image: []byte("img")}
	}
	return assets
}

var liveAccount = models.Account{ID: "178414", AccessToken: "tok"}

// ==========================
// Single vs Carousel Path
// ==========================

func TestRun_SingleImage_SkipsCarouselRoot(t *testing.T) {
	graph := &fakeGraphAPI{}
	up := &fakeUploader{}
	p := newTestPublisher(t, graph, up)

	run := p.NewRun(liveAccount, "my caption", makeAssets(1), nil)
	result, err := run.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, run.State())
	assert.True(t, result.Published)
	assert.False(t, result.Simulated)
	assert.Equal(t, "media_2", result.MediaID)

	require.Len(t, graph.calls, 2)
	assert.Equal(t, "image", graph.calls[0].op)
	assert.Equal(t, "my caption", graph.calls[0].caption)
	assert.False(t, graph.calls[0].carouselItem)
	assert.Equal(t, "publish", graph.calls[1].op)
	assert.Equal(t, "item_1", graph.calls[1].creationID)

	require.Len(t, run.Containers(), 1)
	assert.Equal(t, models.RoleSingleImage, run.Containers()[0].Role)
}

func TestRun_Carousel_ChildOrderMatchesUploadOrder(t *testing.T) {
	graph := &fakeGraphAPI{}
	up := &fakeUploader{}
	p := newTestPublisher(t, graph, up)

	run := p.NewRun(liveAccount, "carousel caption", makeAssets(3), nil)
	result, err := run.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Published)

	// 3 item calls, then the carousel root, then publish.
	require.Len(t, graph.calls, 5)
	itemIDs := []string{}
	for i := 0; i < 3; i++ {
		call := graph.calls[i]
		assert.Equal(t, "image", call.op)
		assert.True(t, call.carouselItem)
		assert.Empty(t, call.caption, "carousel items carry no caption")
		assert.Equal(t, fmt.Sprintf("https://img.example/%d.png", i), call.imageURL)
		itemIDs = append(itemIDs, fmt.Sprintf("item_%d", i+1))
	}

	rootCall := graph.calls[3]
	assert.Equal(t, "carousel", rootCall.op)
	assert.Equal(t, itemIDs, rootCall.childIDs)
	assert.Equal(t, "carousel caption", rootCall.caption)

	publishCall := graph.calls[4]
	assert.Equal(t, "publish", publishCall.op)
	assert.Equal(t, "root_4", publishCall.creationID)

	assert.Equal(t, []int{0, 1, 2}, up.uploaded)

	roles := []models.ContainerRole{}
	for _, c := range run.Containers() {
		roles = append(roles, c.Role)
	}
	assert.Equal(t, []models.ContainerRole{
		models.RoleCarouselItem, models.RoleCarouselItem, models.RoleCarouselItem, models.RoleCarouselRoot,
	}, roles)
}

// ==========================
// Simulation Path
// ==========================

func TestRun_DemoAccount_NoNetworkSameProgress(t *testing.T) {
	graph := &fakeGraphAPI{}

	liveSink := &recordingSink{}
	p := newTestPublisher(t, graph, &fakeUploader{})
	_, err := p.NewRun(liveAccount, "c", makeAssets(2), liveSink).Execute(context.Background())
	require.NoError(t, err)
	liveGraphCalls := len(graph.calls)

	demoSink := &recordingSink{}
	demoGraph := &fakeGraphAPI{}
	p = newTestPublisher(t, demoGraph, &fakeUploader{})
	demo := models.Account{ID: models.DemoAccountID}
	result, err := p.NewRun(demo, "c", makeAssets(2), demoSink).Execute(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Simulated)
	assert.True(t, result.Published)
	assert.NotEmpty(t, result.MediaID)
	assert.Empty(t, demoGraph.calls, "demo account must not touch the Graph API")
	assert.Positive(t, liveGraphCalls)

	// Identical progress cadence on both paths.
	assert.Equal(t, liveSink.messages, demoSink.messages)
}

func TestRun_DemoAccount_SyntheticIDs(t *testing.T) {
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})
	demo := models.Account{ID: models.DemoAccountID}

	run := p.NewRun(demo, "c", makeAssets(2), nil)
	_, err := run.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, run.Containers(), 3)
	assert.Contains(t, run.Containers()[0].ID, "sim_item")
	assert.Contains(t, run.Containers()[2].ID, "sim_carousel")
}

// ==========================
// Progress Reporting
// ==========================

func TestRun_ProgressMessagesInStepOrder(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})

	_, err := p.NewRun(liveAccount, "c", makeAssets(3), sink).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Uploading slide 1 of 3...",
		"Uploading slide 2 of 3...",
		"Uploading slide 3 of 3...",
		"Creating media containers...",
		"Publishing to Instagram...",
	}, sink.messages)
}

func TestRun_NilSinkIsSafe(t *testing.T) {
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})
	_, err := p.NewRun(liveAccount, "c", makeAssets(1), nil).Execute(context.Background())
	assert.NoError(t, err)
}

// ==========================
// Failure Semantics
// ==========================

func TestRun_EmptyAssets_TrivialFailure(t *testing.T) {
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})

	run := p.NewRun(liveAccount, "c", nil, nil)
	result, err := run.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateFailed, run.State())
	assert.False(t, result.Published)
	assert.NotEmpty(t, result.Error)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeNoAssets, stdErr.Code)
}

func TestRun_UploadFailure_AbortsBeforeContainers(t *testing.T) {
	graph := &fakeGraphAPI{}
	up := &fakeUploader{failAt: 2}
	sink := &recordingSink{}
	p := newTestPublisher(t, graph, up)

	run := p.NewRun(liveAccount, "c", makeAssets(3), sink)
	result, err := run.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateFailed, run.State())
	assert.Empty(t, graph.calls, "no container call after an upload failure")
	assert.Contains(t, result.Error, "hosting unavailable")
	// The failing slide's message was already shown; nothing after it.
	assert.Equal(t, []string{
		"Uploading slide 1 of 3...",
		"Uploading slide 2 of 3...",
	}, sink.messages)
}

func TestRun_ItemContainerFailure_NoRootNoPublish(t *testing.T) {
	graph := &fakeGraphAPI{failOn: "image", failErr: errors.New("Invalid image URL")}
	p := newTestPublisher(t, graph, &fakeUploader{})

	run := p.NewRun(liveAccount, "c", makeAssets(3), nil)
	result, err := run.Execute(context.Background())
	require.Error(t, err)

	// First item call fails; no further remote calls of any kind.
	require.Len(t, graph.calls, 1)
	assert.Equal(t, "image", graph.calls[0].op)
	assert.Equal(t, "Invalid image URL", result.Error)
	assert.Equal(t, StateFailed, run.State())
}

func TestRun_CarouselRootFailure_NoPublish(t *testing.T) {
	graph := &fakeGraphAPI{failOn: "carousel", failErr: errors.New("children invalid")}
	p := newTestPublisher(t, graph, &fakeUploader{})

	run := p.NewRun(liveAccount, "c", makeAssets(2), nil)
	_, err := run.Execute(context.Background())
	require.Error(t, err)

	ops := []string{}
	for _, c := range graph.calls {
		ops = append(ops, c.op)
	}
	assert.Equal(t, []string{"image", "image", "carousel"}, ops)
}

func TestRun_PublishFailure_RemoteMessageSurfaced(t *testing.T) {
	graph := &fakeGraphAPI{failOn: "publish", failErr: errors.New("The account is not eligible to publish")}
	p := newTestPublisher(t, graph, &fakeUploader{})

	run := p.NewRun(liveAccount, "c", makeAssets(1), nil)
	result, err := run.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, "The account is not eligible to publish", result.Error)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodePublishFailed, stdErr.Code)
}

// ==========================
// State Machine
// ==========================

func TestRun_StartsIdle(t *testing.T) {
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})
	run := p.NewRun(liveAccount, "c", makeAssets(1), nil)
	assert.Equal(t, StateIdle, run.State())
}

func TestRun_StatesAdvanceThroughSink(t *testing.T) {
	p := newTestPublisher(t, &fakeGraphAPI{}, &fakeUploader{})

	var observed []State
	var run *Run
	sink := SinkFunc(func(string) {
		observed = append(observed, run.State())
	})
	run = p.NewRun(liveAccount, "c", makeAssets(2), sink)

	_, err := run.Execute(context.Background())
	require.NoError(t, err)

	// Upload messages fire in Uploading, the container message in
	// ContainerCreation, the final message in Finalizing.
	assert.Equal(t, []State{
		StateUploading, StateUploading, StateContainerCreation, StateFinalizing,
	}, observed)
}
