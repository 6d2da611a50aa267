package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/share"
	"github.com/fadilmartias/talent-shortlist/internal/shortlist"
)

type ExportRequest struct {
	RecipientEmail string
	Subject        string
	Message        string
	Policy         share.Policy
}

type ShortlistUsecase struct {
	sessions *shortlist.Store
	matches  MatchStore
	outbox   service.OutboxServiceInterface
	logger   *zap.Logger
}

// NewShortlistUsecase wires cart operations. outbox may be nil, which
// disables sharing but keeps export previews working.
func NewShortlistUsecase(sessions *shortlist.Store, matches MatchStore, outbox service.OutboxServiceInterface, log *zap.Logger) *ShortlistUsecase {
	return &ShortlistUsecase{
		sessions: sessions,
		matches:  matches,
		outbox:   outbox,
		logger:   logger.OrNop(log).Named("shortlist"),
	}
}

// AddItem adds a candidate to the session cart, resolved either from the
// session's latest results or from a stored match owned by the user. added is
// false when the candidate was already in the cart.
func (uc *ShortlistUsecase) AddItem(ctx context.Context, userID, sessionID, candidateID, matchID string) (c candidate.Candidate, added bool, err error) {
	candidateID = strings.TrimSpace(candidateID)
	matchID = strings.TrimSpace(matchID)
	if (candidateID == "") == (matchID == "") {
		return candidate.Candidate{}, false, fmt.Errorf("%w: exactly one of candidate_id or match_id is required", ErrInvalidInput)
	}

	sess, err := uc.sessions.Session(sessionID, userID)
	if err != nil {
		return candidate.Candidate{}, false, err
	}

	if candidateID != "" {
		var ok bool
		c, ok = sess.Result(candidateID)
		if !ok {
			return candidate.Candidate{}, false, ErrNotInResults
		}
	} else {
		if _, perr := uuid.Parse(matchID); perr != nil {
			return candidate.Candidate{}, false, fmt.Errorf("%w: match_id is not a valid id", ErrInvalidInput)
		}
		rec, ferr := uc.matches.FindMatchByID(ctx, userID, matchID)
		if ferr != nil {
			return candidate.Candidate{}, false, fmt.Errorf("find match %s: %w", matchID, ferr)
		}
		c, err = candidateFromRecord(rec)
		if err != nil {
			return candidate.Candidate{}, false, err
		}
	}

	added = sess.Cart.Add(c)
	uc.logger.Debug("cart add",
		zap.String(logger.FieldSessionID, sessionID),
		zap.String("candidate_id", c.ID),
		zap.Bool("added", added),
	)
	return c, added, nil
}

func (uc *ShortlistUsecase) RemoveItem(userID, sessionID, candidateID string) (bool, error) {
	sess, err := uc.sessions.Session(sessionID, userID)
	if err != nil {
		return false, err
	}
	return sess.Cart.Remove(candidateID), nil
}

func (uc *ShortlistUsecase) Clear(userID, sessionID string) error {
	sess, err := uc.sessions.Session(sessionID, userID)
	if err != nil {
		return err
	}
	sess.Cart.Clear()
	return nil
}

func (uc *ShortlistUsecase) Cart(userID, sessionID string) ([]candidate.Candidate, error) {
	sess, err := uc.sessions.Session(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return sess.Cart.List(), nil
}

// Export builds the redacted share payload without dispatching it.
func (uc *ShortlistUsecase) Export(userID, sessionID string, req ExportRequest) (*share.ShareExport, error) {
	sess, err := uc.sessions.Session(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return share.BuildExport(sess.Cart, req.Policy, req.RecipientEmail, req.Subject, req.Message)
}

// Share builds the export and hands it to the outbox. It returns the outbox
// message id.
func (uc *ShortlistUsecase) Share(ctx context.Context, userID, sessionID, tenantID string, req ExportRequest) (*share.ShareExport, string, error) {
	exp, err := uc.Export(userID, sessionID, req)
	if err != nil {
		return nil, "", err
	}
	if uc.outbox == nil {
		return nil, "", service.ErrSharingDisabled
	}

	id, err := uc.outbox.Dispatch(ctx, exp, service.DispatchMeta{
		UserID:    userID,
		SessionID: sessionID,
		TenantID:  tenantID,
	})
	if err != nil {
		return nil, "", err
	}
	return exp, id, nil
}

// EndSession discards the session and its cart.
func (uc *ShortlistUsecase) EndSession(userID, sessionID string) (bool, error) {
	ended, err := uc.sessions.EndOwned(sessionID, userID)
	if err != nil {
		return false, err
	}
	if ended {
		uc.logger.Info("session ended", logger.RequestFields(userID, sessionID, "")...)
	}
	return ended, nil
}
