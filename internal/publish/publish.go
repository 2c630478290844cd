// Package publish drives a carousel post from rendered images to a live
// Instagram post: upload each image to public hosting, stage per-image media
// containers, wrap them in a carousel container when there is more than one
// slide, and finalize with a publish call.
//
// A Run moves strictly forward through Uploading, ContainerCreation and
// Finalizing into Succeeded or Failed. The per-asset loops are strictly
// sequential in slide order, so progress messages advance deterministically
// and the carousel children end up in the order the user arranged. There is
// no retry in place and no rollback: the first error terminates the run, and
// containers already staged remotely are abandoned (unpublished containers
// are inert). Retrying means starting a brand-new Run.
package publish

import (
	"context"
	"fmt"
	"time"

	commonerrors "carousel-studio/internal/common/errors"
	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/common/metrics"
	"carousel-studio/internal/hosting"
	"carousel-studio/internal/models"
)

// State is the lifecycle position of a Run.
type State string

const (
	StateIdle              State = "idle"
	StateUploading         State = "uploading"
	StateContainerCreation State = "container_creation"
	StateFinalizing        State = "finalizing"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

// Publisher builds runs. The uploader is fixed by deployment config; the
// transport is chosen per run by the target account.
type Publisher struct {
	uploader hosting.Uploader
	graph    GraphAPI
	simDelay time.Duration
	logger   logger.Logger
}

func NewPublisher(uploader hosting.Uploader, graph GraphAPI, simDelay time.Duration, log logger.Logger) *Publisher {
	return &Publisher{
		uploader: uploader,
		graph:    graph,
		simDelay: simDelay,
		logger:   log.WithFields(map[string]interface{}{"component": "publisher"}),
	}
}

// Run is one publish attempt. Create it fresh per publish action and discard
// it after it settles; it holds no long-lived resources. A Run is not safe
// for concurrent use and Execute must be called at most once.
type Run struct {
	account   models.Account
	caption   string
	assets    []models.PublishableAsset
	transport Transport
	uploader  hosting.Uploader
	sink      Sink
	logger    logger.Logger

	state      State
	containers []models.MediaContainer
}

// NewRun prepares a run for the given account. sink may be nil. The demo
// sentinel account selects the simulated transport here, once; no later code
// branches on the account id.
func (p *Publisher) NewRun(account models.Account, caption string, assets []models.PublishableAsset, sink Sink) *Run {
	var transport Transport
	if account.IsDemo() {
		transport = newSimulatedTransport(p.simDelay)
	} else {
		transport = newGraphTransport(p.graph, account.ID, account.AccessToken)
	}
	if sink == nil {
		sink = nopSink{}
	}
	return &Run{
		account:   account,
		caption:   caption,
		assets:    assets,
		transport: transport,
		uploader:  p.uploader,
		sink:      sink,
		logger: p.logger.WithFields(map[string]interface{}{
			"accountId": account.ID,
			"simulated": account.IsDemo(),
		}),
		state: StateIdle,
	}
}

// State returns the run's current lifecycle position.
func (r *Run) State() State { return r.state }

// Containers returns the containers staged so far, in creation order.
func (r *Run) Containers() []models.MediaContainer { return r.containers }

func (r *Run) mode() string {
	if r.transport.Simulated() {
		return "simulated"
	}
	return "live"
}

// Execute drives the run to a terminal state. The returned result always
// carries the outcome; the error is non-nil exactly when the run failed.
func (r *Run) Execute(ctx context.Context) (*models.PublishResult, error) {
	started := time.Now()

	result, err := r.execute(ctx)
	if err != nil {
		r.state = StateFailed
		stdErr := asStandardError(err)
		metrics.PublishRunsFailed.WithLabelValues(r.mode(), string(stdErr.Code)).Inc()
		r.logger.Error("publish run failed", map[string]interface{}{
			"state":     string(r.state),
			"errorCode": string(stdErr.Code),
			"error":     stdErr.Details,
		})
		return &models.PublishResult{
			Published: false,
			Error:     userMessage(stdErr),
			Simulated: r.transport.Simulated(),
		}, stdErr
	}

	r.state = StateSucceeded
	metrics.PublishRunsCompleted.WithLabelValues(r.mode()).Inc()
	metrics.PublishRunDuration.WithLabelValues(r.mode()).Observe(time.Since(started).Seconds())
	metrics.CarouselSlides.Observe(float64(len(r.assets)))
	r.logger.Info("publish run succeeded", map[string]interface{}{
		"mediaId": result.MediaID,
		"slides":  len(r.assets),
	})
	return result, nil
}

func (r *Run) execute(ctx context.Context) (*models.PublishResult, error) {
	if len(r.assets) == 0 {
		return nil, commonerrors.NewNoAssetsError()
	}

	refs, err := r.uploadAssets(ctx)
	if err != nil {
		return nil, err
	}

	creationID, err := r.createContainers(ctx, refs)
	if err != nil {
		return nil, err
	}

	mediaID, err := r.finalize(ctx, creationID)
	if err != nil {
		return nil, err
	}

	return &models.PublishResult{
		MediaID:   mediaID,
		Published: true,
		Simulated: r.transport.Simulated(),
	}, nil
}

// uploadAssets uploads every asset sequentially, in ordinal order. The
// returned refs are index-aligned with r.assets.
func (r *Run) uploadAssets(ctx context.Context) ([]models.RemoteImageRef, error) {
	r.state = StateUploading
	stepStart := time.Now()

	refs := make([]models.RemoteImageRef, 0, len(r.assets))
	for i, asset := range r.assets {
		r.sink.Notify(fmt.Sprintf("Uploading slide %d of %d...", i+1, len(r.assets)))
		ref, err := r.uploader.Upload(ctx, asset)
		if err != nil {
			return nil, commonerrors.NewUploadFailedError(asset.Ordinal, err)
		}
		refs = append(refs, ref)
	}

	metrics.PublishStepDuration.WithLabelValues(r.mode(), "upload").Observe(time.Since(stepStart).Seconds())
	return refs, nil
}

// createContainers stages the media containers and returns the creation id
// to finalize: the single image container, or the carousel root.
func (r *Run) createContainers(ctx context.Context, refs []models.RemoteImageRef) (string, error) {
	r.state = StateContainerCreation
	r.sink.Notify("Creating media containers...")
	stepStart := time.Now()

	if len(refs) == 1 {
		id, err := r.transport.CreateImageContainer(ctx, refs[0].PublicURL, r.caption, false)
		if err != nil {
			return "", commonerrors.NewContainerFailedError("image", err)
		}
		r.containers = append(r.containers, models.MediaContainer{ID: id, Role: models.RoleSingleImage})
		metrics.PublishStepDuration.WithLabelValues(r.mode(), "containers").Observe(time.Since(stepStart).Seconds())
		return id, nil
	}

	childIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := r.transport.CreateImageContainer(ctx, ref.PublicURL, "", true)
		if err != nil {
			return "", commonerrors.NewContainerFailedError("carousel item", err)
		}
		childIDs = append(childIDs, id)
		r.containers = append(r.containers, models.MediaContainer{ID: id, Role: models.RoleCarouselItem})
	}

	rootID, err := r.transport.CreateCarouselContainer(ctx, childIDs, r.caption)
	if err != nil {
		return "", commonerrors.NewContainerFailedError("carousel", err)
	}
	r.containers = append(r.containers, models.MediaContainer{ID: rootID, Role: models.RoleCarouselRoot})

	metrics.PublishStepDuration.WithLabelValues(r.mode(), "containers").Observe(time.Since(stepStart).Seconds())
	return rootID, nil
}

func (r *Run) finalize(ctx context.Context, creationID string) (string, error) {
	r.state = StateFinalizing
	r.sink.Notify("Publishing to Instagram...")
	stepStart := time.Now()

	mediaID, err := r.transport.PublishContainer(ctx, creationID)
	if err != nil {
		return "", commonerrors.NewPublishFailedError(err)
	}

	metrics.PublishStepDuration.WithLabelValues(r.mode(), "finalize").Observe(time.Since(stepStart).Seconds())
	return mediaID, nil
}

func asStandardError(err error) *commonerrors.StandardError {
	if stdErr, ok := err.(*commonerrors.StandardError); ok {
		return stdErr
	}
	return commonerrors.NewGraphAPIError(err.Error())
}

// userMessage prefers the verbatim remote message carried in Details.
func userMessage(e *commonerrors.StandardError) string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}
