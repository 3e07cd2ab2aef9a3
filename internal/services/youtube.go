package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/timestamp"
)

const (
	defaultOEmbedURL    = "https://www.youtube.com/oembed"
	defaultWatchPageURL = "https://www.youtube.com/watch"
)

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=([^&#]+)`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/v/([^&?#/]+)`),
	regexp.MustCompile(`^https?://youtu\.be/([^&?#/]+)`),
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

type YouTubeOptions struct {
	// APIKey enables the YouTube Data API for exact durations.
	APIKey string
	// ScrapeDuration reads the duration from the watch page when no API key
	// is configured.
	ScrapeDuration bool
	// IncludeTranscript attaches caption text to VideoInfo.
	IncludeTranscript   bool
	TranscriptLanguages []string
	HTTPTimeout         time.Duration

	// Overridable endpoints, used by tests.
	OEmbedURL       string
	DataAPIEndpoint string
	WatchPageURL    string
}

// videoLookup reads player metadata from the watch page. *yt.Client
// satisfies it.
type videoLookup interface {
	GetVideoContext(ctx context.Context, id string) (*yt.Video, error)
}

type YouTubeService struct {
	opts       YouTubeOptions
	httpClient *http.Client
	dataAPI    *youtube.Service
	captions   captionSource
	videos     videoLookup
	log        logrus.FieldLogger
}

func NewYouTubeService(ctx context.Context, opts YouTubeOptions, log logrus.FieldLogger) (*YouTubeService, error) {
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 30 * time.Second
	}
	if opts.OEmbedURL == "" {
		opts.OEmbedURL = defaultOEmbedURL
	}
	if opts.WatchPageURL == "" {
		opts.WatchPageURL = defaultWatchPageURL
	}
	if len(opts.TranscriptLanguages) == 0 {
		opts.TranscriptLanguages = []string{"ja", "en", "en-US", "en-GB"}
	}

	httpClient := &http.Client{Timeout: opts.HTTPTimeout}

	s := &YouTubeService{
		opts:       opts,
		httpClient: httpClient,
		captions:   apiCaptions(ytapi.NewYouTubeTranscriptApi()),
		videos:     &yt.Client{HTTPClient: httpClient},
		log:        log,
	}

	if opts.APIKey != "" {
		clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
		if opts.DataAPIEndpoint != "" {
			clientOpts = append(clientOpts, option.WithEndpoint(opts.DataAPIEndpoint))
		}
		svc, err := youtube.NewService(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube Data API client: %w", err)
		}
		s.dataAPI = svc
	}

	return s, nil
}

// ExtractVideoID pulls the video ID out of a watch, /v/, youtu.be or any
// youtube.com URL carrying a v= query parameter.
func (s *YouTubeService) ExtractVideoID(rawURL string) (string, error) {
	return ExtractVideoID(rawURL)
}

func ExtractVideoID(rawURL string) (string, error) {
	const op = "youtube.ExtractVideoID"

	for _, re := range videoURLPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}

	u, err := url.Parse(rawURL)
	if err == nil && strings.Contains(u.Host, "youtube.com") {
		if v := u.Query().Get("v"); v != "" {
			return v, nil
		}
	}

	return "", apperrors.InvalidURL(op, rawURL)
}

// ValidateURL reports whether rawURL is a video URL ExtractVideoID accepts.
func ValidateURL(rawURL string) bool {
	_, err := ExtractVideoID(rawURL)
	return err == nil
}

// GetVideoInfo collects title, author and duration for the video. The
// duration comes from the Data API when an API key is configured, otherwise
// from the watch page if scraping is enabled, otherwise it stays unknown.
func (s *YouTubeService) GetVideoInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error) {
	const op = "youtube.GetVideoInfo"

	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	log := s.log.WithField("video_id", videoID)

	oembed, err := s.fetchOEmbed(ctx, videoID)
	if err != nil {
		return nil, apperrors.MetadataFetch(op, err, "failed to fetch video info")
	}

	info := &models.VideoInfo{
		VideoID: videoID,
		Title:   oembed.Title,
		Author:  oembed.AuthorName,
		URL:     rawURL,
	}

	switch {
	case s.dataAPI != nil:
		if err := s.fillFromDataAPI(ctx, info); err != nil {
			return nil, err
		}
	case s.opts.ScrapeDuration:
		secs, err := s.scrapeDuration(ctx, videoID)
		if err != nil {
			log.WithError(err).Warn("could not read video duration, timestamps will not be validated")
		} else {
			info.DurationSeconds = secs
		}
	}
	info.DurationText = timestamp.FromSeconds(info.DurationSeconds)

	if s.opts.IncludeTranscript {
		transcript, err := s.GetTranscript(ctx, videoID)
		if err != nil {
			log.WithError(err).Warn("transcript unavailable, continuing without it")
		} else {
			info.Transcript = transcript
		}
	}

	log.WithFields(logrus.Fields{
		"title":    info.Title,
		"duration": info.DurationText,
	}).Debug("video info resolved")

	return info, nil
}

func (s *YouTubeService) fetchOEmbed(ctx context.Context, videoID string) (*models.OEmbedResponse, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.OEmbedURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oEmbed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oEmbed returned status %d", resp.StatusCode)
	}

	var out models.OEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w", err)
	}
	return &out, nil
}

func (s *YouTubeService) fillFromDataAPI(ctx context.Context, info *models.VideoInfo) error {
	const op = "youtube.fillFromDataAPI"

	resp, err := s.dataAPI.Videos.List([]string{"contentDetails", "snippet"}).Id(info.VideoID).Context(ctx).Do()
	if err != nil {
		return apperrors.MetadataFetch(op, err, "YouTube Data API request failed")
	}
	if len(resp.Items) == 0 {
		return apperrors.MetadataFetch(op, nil, fmt.Sprintf("video not found: %s", info.VideoID))
	}

	item := resp.Items[0]
	if item.Snippet != nil {
		if info.Title == "" {
			info.Title = item.Snippet.Title
		}
		if info.Author == "" {
			info.Author = item.Snippet.ChannelTitle
		}
	}
	if item.ContentDetails != nil {
		secs, err := parseISODuration(item.ContentDetails.Duration)
		if err != nil {
			return apperrors.MetadataFetch(op, err, "failed to parse video duration")
		}
		info.DurationSeconds = secs
	}
	return nil
}

func (s *YouTubeService) scrapeDuration(ctx context.Context, videoID string) (int, error) {
	video, err := s.videos.GetVideoContext(ctx, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}
	return int(video.Duration.Seconds()), nil
}

// parseISODuration converts the Data API's ISO-8601 duration ("PT1H2M3S")
// into seconds.
func parseISODuration(d string) (int, error) {
	m := isoDurationRe.FindStringSubmatch(strings.TrimSpace(d))
	if m == nil || d == "P" || strings.HasSuffix(d, "T") {
		return 0, fmt.Errorf("unsupported ISO-8601 duration %q", d)
	}

	units := []int{86400, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("unsupported ISO-8601 duration %q: %w", d, err)
		}
		total += n * unit
	}
	return total, nil
}
