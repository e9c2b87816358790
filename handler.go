package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type Handler struct {
	store     ObjectStore
	generator ThumbnailGenerator
	notifier  HttpNotifier
	config    Config
}

type S3ObjectInfo struct {
	Bucket string
	Key    string
}

var errNoRecords = errors.New("event contains no records")

func NewHandler(config Config) (*Handler, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &Handler{
		store:     NewS3ObjectStore(s3.New(sess)),
		generator: NewImageThumbnailGenerator(config.JPEGQuality),
		notifier:  NewCallbackNotifier(&http.Client{}),
		config:    config,
	}, nil
}

func (h *Handler) HandleLambdaEvent(ctx context.Context, event events.S3Event) (ResultEnvelope, error) {
	if len(event.Records) == 0 {
		L().Error().Err(errNoRecords).Msg("nothing to process")
		return errorEnvelope(errNoRecords), nil
	}
	if len(event.Records) > 1 {
		L().Warn().Int("records", len(event.Records)).Msg("only the first record is processed")
	}

	return h.processObject(ctx, objectInfo(event.Records[0])), nil
}

func (h *Handler) processObject(ctx context.Context, s3obj S3ObjectInfo) ResultEnvelope {
	log := L().With().Str("bucket", s3obj.Bucket).Str("key", s3obj.Key).Logger()

	if IsDerivedKey(s3obj.Key) {
		err := fmt.Errorf("refusing to process s3://%s/%s: key is under %q", s3obj.Bucket, s3obj.Key, imagePrefix)
		log.Warn().Err(err).Msg("skipping derived image")
		return errorEnvelope(err)
	}

	log.Info().Msg("generating thumbnails")

	src, err := h.store.Get(ctx, s3obj.Bucket, s3obj.Key)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		return errorEnvelope(err)
	}

	images, err := h.generator.Generate(src, h.config.Blur)
	if err != nil {
		log.Error().Err(err).Msg("thumbnail generation failed")
		return errorEnvelope(err)
	}

	keys := make([]string, 0, len(images))
	for _, img := range images {
		if err := h.store.Put(ctx, s3obj.Bucket, img.Key, img.Data, img.ContentType); err != nil {
			log.Error().Err(err).Str("variant", img.Variant).Msg("upload failed")
			return errorEnvelope(err)
		}
		log.Info().
			Str("variant", img.Variant).
			Str("thumbnail_key", img.Key).
			Int("width", img.Width).
			Int("height", img.Height).
			Msg("uploaded thumbnail")
		keys = append(keys, img.Key)
	}

	callbackURL := CallbackURL(h.config.CallbackBaseURL, s3obj.Key)
	status, body, err := h.notifier.Put(ctx, callbackURL, CallbackPayload{
		Bucket:     s3obj.Bucket,
		Key:        s3obj.Key,
		Thumbnails: keys,
	})
	if err != nil {
		log.Error().Err(err).Str("url", callbackURL).Msg("callback failed")
		return errorEnvelope(err)
	}

	resp, err := relayBody(body)
	if err != nil {
		log.Error().Err(err).Int("status_code", status).Msg("invalid callback response")
		return errorEnvelope(err)
	}

	log.Info().Int("status_code", status).Int("thumbnails", len(keys)).Msg("callback sent")
	return ResultEnvelope{StatusCode: status, Resp: resp}
}

// relayBody returns the callback response as raw JSON. An empty body is null.
func relayBody(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("callback returned invalid JSON: %q", truncate(string(body), 200))
	}
	return json.RawMessage(body), nil
}

// HandleS3URL runs the pipeline on every object under an s3://bucket/prefix
// URL, one object at a time. Keys already under the image prefix are skipped.
func (h *Handler) HandleS3URL(ctx context.Context, url string) error {
	bucket, prefix, err := ParseS3URL(url)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %v", err)
	}

	keys, err := h.store.List(ctx, bucket, prefix)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if IsDerivedKey(key) {
			continue
		}
		result := h.processObject(ctx, S3ObjectInfo{Bucket: bucket, Key: key})
		if result.Error != "" {
			return fmt.Errorf("error processing s3://%s/%s: %s", bucket, key, result.Error)
		}
	}

	return nil
}
