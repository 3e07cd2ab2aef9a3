package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	captionTracksRe      = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionTracklistRe   = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionBaseURLRe     = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
	errNoCaptions        = errors.New("no captions available for this video")
	errEmptyCaptionTrack = errors.New("caption track is empty")
)

// captionSource returns the caption lines of a video in the first matching
// language. A nil language list means any language.
type captionSource func(videoID string, languages []string) ([]string, error)

func apiCaptions(api *ytapi.YouTubeTranscriptApi) captionSource {
	return func(videoID string, languages []string) ([]string, error) {
		transcript, err := api.GetTranscript(videoID, languages)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(transcript.Entries))
		for _, entry := range transcript.Entries {
			lines = append(lines, entry.Text)
		}
		return lines, nil
	}
}

type timedText struct {
	XMLName xml.Name        `xml:"transcript"`
	Lines   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// GetTranscript returns the video's caption text joined into one string.
// It tries the preferred languages, then any language, then the caption
// track linked from the watch page.
func (s *YouTubeService) GetTranscript(ctx context.Context, videoID string) (string, error) {
	text, err := s.transcriptFromAPI(ctx, videoID, s.opts.TranscriptLanguages)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	text, anyErr := s.transcriptFromAPI(ctx, videoID, nil)
	if anyErr == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	text, pageErr := s.transcriptFromWatchPage(ctx, videoID)
	if pageErr != nil {
		return "", fmt.Errorf("transcript API failed (%v) and watch page fallback failed: %w", anyErr, pageErr)
	}
	return text, nil
}

// transcriptFromAPI runs the caption source off the calling goroutine so a
// cancelled context returns immediately.
func (s *YouTubeService) transcriptFromAPI(ctx context.Context, videoID string, languages []string) (string, error) {
	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		lines, err := s.captions(videoID, languages)
		done <- result{lines, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		return joinCaptions(r.lines)
	}
}

func (s *YouTubeService) transcriptFromWatchPage(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	page, err := s.fetchPage(ctx, s.opts.WatchPageURL+"?"+q.Encode(), "watch page")
	if err != nil {
		return "", err
	}

	captionURL, err := extractCaptionURL(string(page))
	if err != nil {
		return "", err
	}
	s.log.WithField("video_id", videoID).Debug("using caption track from watch page")

	body, err := s.fetchPage(ctx, captionURL, "captions")
	if err != nil {
		return "", err
	}

	text, err := parseCaptionsXML(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return text, nil
}

func (s *YouTubeService) fetchPage(ctx context.Context, target, what string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", what, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", what, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return body, nil
}

func extractCaptionURL(pageHTML string) (string, error) {
	m := captionTracksRe.FindStringSubmatch(pageHTML)
	if len(m) < 2 {
		m = captionTracklistRe.FindStringSubmatch(pageHTML)
		if len(m) < 2 {
			return "", errNoCaptions
		}
	}

	u := captionBaseURLRe.FindStringSubmatch(m[1])
	if len(u) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	r := strings.NewReplacer(`\u0026`, "&", `\/`, "/")
	return r.Replace(u[1]), nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		lines = append(lines, html.UnescapeString(l.Text))
	}
	return joinCaptions(lines)
}

func joinCaptions(lines []string) (string, error) {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	if len(parts) == 0 {
		return "", errEmptyCaptionTrack
	}
	return strings.Join(parts, " "), nil
}
