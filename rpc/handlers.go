package rpc

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iseefortune/go-verifier/store"
	"github.com/iseefortune/go-verifier/verifier"
)

const auditSource = "http"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Versions: verifier.Versions()})
}

func (s *Server) verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.metrics.verifications.WithLabelValues(kindInvalidRequest).Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: kindInvalidRequest})
		return
	}

	slotText := strings.TrimSpace(req.Slot)
	blockhash := strings.TrimSpace(req.Blockhash)
	if slotText == "" {
		s.badRequest(c, "slot is required")
		return
	}
	if blockhash == "" {
		s.badRequest(c, "blockhash is required")
		return
	}

	slot, err := strconv.ParseUint(slotText, 10, 64)
	if err != nil {
		s.badRequest(c, fmt.Sprintf("slot must be an unsigned 64-bit integer, got %q", slotText))
		return
	}

	key := cacheKey(slot, s.cfg.Modulus, blockhash)
	res, ok := s.cache.Get(key)
	if ok {
		s.metrics.cacheHits.Inc()
	} else {
		res, err = verifier.Verify(slot, blockhash, s.cfg.Modulus)
		if err != nil {
			kind := verifier.KindOf(err)
			s.metrics.verifications.WithLabelValues(string(kind)).Inc()
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: string(kind)})
			return
		}
		s.cache.Set(key, res, 1)

		if s.store != nil {
			err = s.store.PutResult(c.Request.Context(), auditSource, res)
			if err != nil {
				s.logger.Warn("storing audit record failed", zap.Uint64("slot", slot), zap.Error(err))
			}
		}
	}
	s.metrics.verifications.WithLabelValues(resultOK).Inc()

	resp := VerifyResponse{
		RngVersion:    res.Version,
		Slot:          strconv.FormatUint(res.Slot, 10),
		Blockhash:     res.Blockhash,
		Range:         res.Debug.Modulus,
		WinningNumber: res.WinningNumber,
	}
	if req.Debug {
		debug := res.Debug
		resp.Debug = &debug
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) audits(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "audit store is not configured"})
		return
	}

	slot, err := strconv.ParseUint(c.Param("slot"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("slot must be an unsigned 64-bit integer, got %q", c.Param("slot")), Kind: kindInvalidRequest})
		return
	}

	records, err := s.store.GetRecordsForSlot(c.Request.Context(), slot)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no audit records for slot"})
			return
		}
		s.logger.Error("getting audit records", zap.Uint64("slot", slot), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "getting audit records"})
		return
	}

	c.JSON(http.StatusOK, AuditsResponse{Slot: strconv.FormatUint(slot, 10), Records: records})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	s.metrics.verifications.WithLabelValues(kindInvalidRequest).Inc()
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: kindInvalidRequest})
}

func cacheKey(slot, modulus uint64, blockhash string) string {
	return fmt.Sprintf("%d:%d:%s", slot, modulus, blockhash)
}
