package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/questify-app/questify/internal/domain"
)

// ─── Read endpoints ──────────────────────────────────────────────────────────

// statsResponse is UserStats plus the derived display fields.
type statsResponse struct {
	domain.UserStats
	Level                     int `json:"level"`
	NextLevelXP               int `json:"next_level_xp"`
	XPWithinLevel             int `json:"xp_within_level"`
	EffectiveStreak           int `json:"effective_streak"`
	EffectiveAttendanceStreak int `json:"effective_attendance_streak"`
}

func toStatsResponse(s domain.UserStats) statsResponse {
	return statsResponse{
		UserStats:                 s,
		Level:                     s.Level(),
		NextLevelXP:               s.NextLevelXP(),
		XPWithinLevel:             s.XPWithinLevel(),
		EffectiveStreak:           s.EffectiveStreak(),
		EffectiveAttendanceStreak: s.EffectiveAttendanceStreak(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity": map[string]interface{}{
			"days":           st.StreakDays,
			"effective_days": st.EffectiveStreak(),
			"longest":        st.LongestStreak,
			"last_active":    st.LastActiveDate,
			"freeze":         st.StreakFreeze,
		},
		"attendance": map[string]interface{}{
			"days":           st.AttendanceStreak,
			"effective_days": st.EffectiveAttendanceStreak(),
			"longest":        st.LongestAttendanceStreak,
			"last_active":    st.LastAttendanceDate,
			"freeze":         st.AttendanceFreeze,
		},
	})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	badges := s.engine.Badges()
	unlocked := 0
	for _, b := range badges {
		if b.Unlocked {
			unlocked++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badges":   badges,
		"unlocked": unlocked,
		"total":    len(badges),
	})
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	var quests []domain.DailyQuest
	if r.URL.Query().Get("all") == "true" {
		quests = s.engine.AllQuests()
	} else {
		quests = s.engine.TodayQuests()
	}
	if quests == nil {
		quests = []domain.DailyQuest{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quests": quests,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	pending, err := s.engine.PendingNotifications(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pending == nil {
		pending = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": pending,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	entries, err := s.engine.Ledger(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// handleSummary returns the single payload the dashboard renders from.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stats()
	badges := s.engine.Badges()
	unlocked := 0
	for _, b := range badges {
		if b.Unlocked {
			unlocked++
		}
	}
	quests := s.engine.TodayQuests()
	if quests == nil {
		quests = []domain.DailyQuest{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":           toStatsResponse(st),
		"badges_unlocked": unlocked,
		"badges_total":    len(badges),
		"today_quests":    quests,
	})
}

// ─── Mutation endpoints ──────────────────────────────────────────────────────

type freezeRequest struct {
	Track     string `json:"track"` // "activity" or "attendance"
	Reason    string `json:"reason"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleStreakFreeze(w http.ResponseWriter, r *http.Request) {
	var req freezeRequest
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var err error
	switch req.Track {
	case "", "activity":
		err = s.engine.ActivateStreakFreeze(req.Reason, req.StartDate, req.EndDate)
	case "attendance":
		err = s.engine.ActivateAttendanceStreakFreeze(req.Reason, req.StartDate, req.EndDate)
	default:
		writeError(w, http.StatusBadRequest, "unknown track: "+req.Track)
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

func (s *Server) handleStreakUnfreeze(w http.ResponseWriter, r *http.Request) {
	var req freezeRequest
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var err error
	switch req.Track {
	case "", "activity":
		err = s.engine.DeactivateStreakFreeze()
	case "attendance":
		err = s.engine.DeactivateAttendanceStreakFreeze()
	default:
		writeError(w, http.StatusBadRequest, "unknown track: "+req.Track)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

func (s *Server) handleQuestsGenerate(w http.ResponseWriter, r *http.Request) {
	quests, err := s.engine.GenerateDailyQuests()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quests": quests,
	})
}

func (s *Server) handleQuestComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.CompleteQuest(id); err != nil {
		if errors.Is(err, domain.ErrQuestNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.engine.MarkNotificationShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reset(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

// ─── Event endpoints ─────────────────────────────────────────────────────────
// The host app posts one request per domain event; the engine does the
// rest (XP, streaks, quests, badges, notifications).

func (s *Server) handleTaskCompleted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DueDate string `json:"due_date"`
	}
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAfterEvent(w, s.engine.CompleteTask(req.DueDate))
}

func (s *Server) handleStudySession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := s.engine.LogStudySession(req.Minutes)
	if errors.Is(err, domain.ErrInvalidMinutes) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAfterEvent(w, err)
}

func (s *Server) handleClassAttended(w http.ResponseWriter, r *http.Request) {
	s.respondAfterEvent(w, s.engine.AttendClass())
}

func (s *Server) handleScheduleBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalSlots   int `json:"total_slots"`
		DistinctDays int `json:"distinct_days"`
	}
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAfterEvent(w, s.engine.AddScheduleBlock(req.TotalSlots, req.DistinctDays))
}

func (s *Server) handleScheduleBlockCompleted(w http.ResponseWriter, r *http.Request) {
	s.respondAfterEvent(w, s.engine.CompleteScheduleBlock())
}

func (s *Server) handlePerfectWeek(w http.ResponseWriter, r *http.Request) {
	s.respondAfterEvent(w, s.engine.RecordPerfectWeek())
}

func (s *Server) handleCourseAdded(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalCourses int `json:"total_courses"`
	}
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAfterEvent(w, s.engine.AddCourse(req.TotalCourses))
}

func (s *Server) handleGradeEntered(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GradedCount int     `json:"graded_count"`
		GPA         float64 `json:"gpa"`
	}
	if err := decodeOrEmpty(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAfterEvent(w, s.engine.EnterGrade(req.GradedCount, req.GPA))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.respondAfterEvent(w, s.engine.DailyLogin())
}

// respondAfterEvent finishes every event endpoint the same way: the
// caller gets the post-event stats back so it can refresh its UI from
// one response.
func (s *Server) respondAfterEvent(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(s.engine.Stats()))
}

// decodeOrEmpty decodes a JSON body, treating an empty body as an empty
// request.
func decodeOrEmpty(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
