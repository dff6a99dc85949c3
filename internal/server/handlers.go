package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-matcher/internal/cache"
	"github.com/jonathan/talent-matcher/internal/db"
	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/jonathan/talent-matcher/internal/metrics"
	"github.com/jonathan/talent-matcher/internal/types"
	"go.uber.org/zap"
)

// Sources recorded on match metrics
const (
	sourceInline  = "inline"
	sourceProject = "project"
)

// MatchRequest is the body of POST /matches
type MatchRequest struct {
	Project    *types.ProjectRequirement `json:"project"`
	Candidates []types.TalentProfile     `json:"candidates"`
	Options    *types.MatchOptions       `json:"options,omitempty"`
}

// ProjectMatchResponse is returned by POST /projects/{id}/matches.
// Truncated reports that the candidate query hit its limit; profiles past it may not have been scored.
type ProjectMatchResponse struct {
	RunID         string              `json:"run_id"`
	ProjectID     string              `json:"project_id"`
	Results       []types.MatchResult `json:"results"`
	Notifications int                 `json:"notifications"`
	Truncated     bool                `json:"truncated"`
}

// handleMatch scores an inline project against an inline candidate pool
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	results, err := s.runMatch(r.Context(), sourceInline, req.Project, req.Candidates, req.Options)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.MatchResults{
		ProjectID: req.Project.ID,
		Results:   results,
	})
}

// handleProjectMatch scores a stored project against the stored talent pool, persists the
// run and publishes events for the strongest results
func (s *Server) handleProjectMatch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrUnavailable{Dependency: "database"})
		return
	}
	ctx := r.Context()
	projectID := r.PathValue("id")

	var opts *types.MatchOptions
	if r.ContentLength != 0 {
		opts = &types.MatchOptions{}
		if err := s.decodeBody(w, r, opts); err != nil {
			s.errorFromErr(w, err)
			return
		}
	}

	project, err := s.store.GetProjectRequirement(ctx, projectID)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if project == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "project", ID: projectID})
		return
	}

	candidates, err := s.store.ListCandidates(ctx, db.ProjectSkillKeys(project), s.candidateLimit)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	truncated := len(candidates) >= s.candidateLimit
	if truncated {
		s.logger.Warn("candidate pool truncated at limit",
			zap.String("project_id", project.ID),
			zap.Int("limit", s.candidateLimit))
	}

	results, err := s.runMatch(ctx, sourceProject, project, candidates, opts)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	runID, err := s.store.SaveMatchRun(ctx, &db.MatchRunInput{
		ProjectID: project.ID,
		Weights:   s.engine.Weights(),
		Options:   opts,
		Results:   results,
	})
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	published, err := s.publisher.PublishMatches(ctx, project, runID.String(), results)
	s.metrics.ObserveNotifications(published)
	if err != nil {
		s.logger.Warn("failed to publish match events",
			zap.String("project_id", project.ID),
			zap.String("run_id", runID.String()),
			zap.Int("published", published),
			zap.Error(err))
	}

	s.logger.Info("match run stored",
		zap.String("project_id", project.ID),
		zap.String("run_id", runID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)))

	s.jsonResponse(w, http.StatusOK, ProjectMatchResponse{
		RunID:         runID.String(),
		ProjectID:     project.ID,
		Results:       results,
		Notifications: published,
		Truncated:     truncated,
	})
}

// handleGetRun returns a stored match run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrUnavailable{Dependency: "database"})
		return
	}

	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	run, err := s.store.GetMatchRun(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if run == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "run", ID: raw})
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleHealth reports degraded when a configured store cannot be reached
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody reads a size-capped JSON body into v
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: "request body too large"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// runMatch serves from the cache when possible, otherwise scores and caches the result
func (s *Server) runMatch(
	ctx context.Context,
	source string,
	project *types.ProjectRequirement,
	candidates []types.TalentProfile,
	opts *types.MatchOptions,
) ([]types.MatchResult, error) {
	start := time.Now()

	var key string
	if s.cache != nil && project != nil {
		k, err := cache.Key(project, candidates, opts, s.engine.Weights())
		if err != nil {
			s.logger.Warn("failed to derive cache key", zap.Error(err))
		} else {
			key = k
			cached, err := s.cache.Get(ctx, key)
			switch {
			case err == nil:
				s.metrics.ObserveCache(metrics.CacheHit)
				s.metrics.ObserveMatch(source, metrics.OutcomeOK, len(candidates), len(cached), time.Since(start))
				return cached, nil
			case errors.Is(err, cache.ErrNotFound):
				s.metrics.ObserveCache(metrics.CacheMiss)
			default:
				s.metrics.ObserveCache(metrics.CacheError)
				s.logger.Warn("cache lookup failed", zap.Error(err))
			}
		}
	}

	results, err := s.engine.FindMatches(ctx, project, candidates, opts)
	if err != nil {
		outcome := metrics.OutcomeError
		var invalid *matching.ValidationError
		if errors.As(err, &invalid) {
			outcome = metrics.OutcomeInvalid
		}
		s.metrics.ObserveMatch(source, outcome, len(candidates), 0, time.Since(start))
		return nil, err
	}
	s.metrics.ObserveMatch(source, metrics.OutcomeOK, len(candidates), len(results), time.Since(start))

	if key != "" {
		if err := s.cache.Set(ctx, key, results, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache match results", zap.Error(err))
		}
	}

	s.logger.Debug("match complete",
		zap.String("source", source),
		zap.String("project_id", project.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)))

	return results, nil
}
