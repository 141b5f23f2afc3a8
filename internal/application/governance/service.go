package governance

import (
	"context"
	"sync"
	"time"

	"agora-backend/internal/application/events"
	"agora-backend/internal/application/ledger"
	"agora-backend/internal/application/registry"
	"agora-backend/internal/models"
	"agora-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EngineIdentity is the capability the achievement registry trusts. Only
// calls carrying this identity may mint.
const EngineIdentity = "governance-engine"

const singletonID = 1

// SeedParams initialize the DAOConfig row on first boot.
type SeedParams struct {
	ProposalThreshold int64
	VotingPeriod      time.Duration
	QuorumBps         int64
	AdminAddress      string
}

// Service is the treasury and proposal engine. It exclusively owns proposal
// records, the treasury pool and the DAO parameters; the ledger and registry
// are collaborators it calls into.
//
// Every mutating call runs under mu and inside one DB transaction, so calls
// are serialized and either fully commit or fully abort.
type Service struct {
	DB       *gorm.DB
	Ledger   *ledger.Service
	Registry *registry.Service
	Events   *events.Publisher

	// Now supplies the current time for window checks; defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Bootstrap ensures the singleton rows exist (DAO parameters seeded from
// config, zeroed treasury). Idempotent; existing rows are left untouched.
func (s *Service) Bootstrap(ctx context.Context, seed SeedParams) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg models.DAOConfig
		err := tx.Where("id = ?", singletonID).First(&cfg).Error
		if err == gorm.ErrRecordNotFound {
			cfg = models.DAOConfig{
				ID:                  singletonID,
				ProposalThreshold:   seed.ProposalThreshold,
				VotingPeriodSeconds: int64(seed.VotingPeriod / time.Second),
				QuorumBps:           seed.QuorumBps,
				AdminAddress:        seed.AdminAddress,
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var pool models.TreasuryState
		err = tx.Where("id = ?", singletonID).First(&pool).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&models.TreasuryState{ID: singletonID}).Error
		}
		return err
	})
}

// CreateProposal validates the caller and request against the ledger and the
// pool, then appends a new Active proposal. Returns the new sequential id.
// Precondition order is fixed: threshold, amount > 0, amount vs pool, title.
func (s *Service) CreateProposal(ctx context.Context, caller, title, description, metadataRef string, requestedAmount int64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var proposal models.Proposal
	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := getConfig(tx)
		if err != nil {
			return err
		}
		balance, err := s.Ledger.BalanceOfTx(tx, caller)
		if err != nil {
			return err
		}
		if balance < cfg.ProposalThreshold {
			return ErrBelowProposalThreshold
		}
		if requestedAmount <= 0 {
			return ErrInvalidAmount
		}
		pool, err := getTreasury(tx)
		if err != nil {
			return err
		}
		if requestedAmount > pool.Balance {
			return ErrInsufficientTreasury
		}
		title = validation.SanitizeText(title)
		if title == "" {
			return ErrEmptyTitle
		}

		proposal = models.Proposal{
			Proposer:        caller,
			Title:           title,
			Description:     validation.SanitizeText(description),
			MetadataRef:     metadataRef,
			RequestedAmount: requestedAmount,
			VotingStartsAt:  now,
			VotingEndsAt:    now.Add(time.Duration(cfg.VotingPeriodSeconds) * time.Second),
			State:           models.ProposalStateActive,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventProposalCreated, &proposal.ProposalID, map[string]interface{}{
			"proposal_id":      proposal.ProposalID,
			"proposer":         proposal.Proposer,
			"title":            proposal.Title,
			"requested_amount": proposal.RequestedAmount,
			"voting_starts_at": proposal.VotingStartsAt,
			"voting_ends_at":   proposal.VotingEndsAt,
		})
	})
	if err != nil {
		return 0, err
	}

	s.publishPending(ctx, pending)
	return proposal.ProposalID, nil
}

// CastVote records a vote with the caller's live balance as weight. The
// weight is frozen at cast time; later balance changes do not revisit it.
func (s *Service) CastVote(ctx context.Context, caller string, proposalID uint64, support bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var weight int64
	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := getProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if proposal.State != models.ProposalStateActive {
			return ErrProposalNotActive
		}
		if now.After(proposal.VotingEndsAt) {
			return ErrVotingClosed
		}

		var existing int64
		if err := tx.Model(&models.Vote{}).Where("proposal_id = ? AND voter = ?", proposalID, caller).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		weight, err = s.Ledger.BalanceOfTx(tx, caller)
		if err != nil {
			return err
		}
		if weight <= 0 {
			return ErrNoVotingWeight
		}

		if err := tx.Create(&models.Vote{
			ProposalID: proposalID,
			Voter:      caller,
			Support:    support,
			Weight:     weight,
		}).Error; err != nil {
			return err
		}

		if support {
			proposal.ForVotes += weight
		} else {
			proposal.AgainstVotes += weight
		}
		if err := tx.Save(proposal).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventVoteCast, &proposalID, map[string]interface{}{
			"voter":       caller,
			"proposal_id": proposalID,
			"support":     support,
			"weight":      weight,
		})
	})
	if err != nil {
		return 0, err
	}

	s.publishPending(ctx, pending)
	return weight, nil
}

// FinalizeProposal tallies a closed vote against quorum. Succeeded requires
// participation >= quorum and a strict for-majority; a tie is Defeated.
func (s *Service) FinalizeProposal(ctx context.Context, proposalID uint64) (models.ProposalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var outcome models.ProposalState

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := getProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if proposal.State != models.ProposalStateActive {
			return ErrProposalNotActive
		}
		if !now.After(proposal.VotingEndsAt) {
			return ErrVotingStillOpen
		}

		cfg, err := getConfig(tx)
		if err != nil {
			return err
		}
		supply, err := s.Ledger.TotalSupplyTx(tx)
		if err != nil {
			return err
		}

		quorumVotes := supply * cfg.QuorumBps / 10000
		totalVotes := proposal.ForVotes + proposal.AgainstVotes

		outcome = models.ProposalStateDefeated
		if totalVotes >= quorumVotes && proposal.ForVotes > proposal.AgainstVotes {
			outcome = models.ProposalStateSucceeded
		}
		proposal.State = outcome
		return tx.Save(proposal).Error
	})
	if err != nil {
		return "", err
	}

	log.Info().Uint64("proposal_id", proposalID).Str("outcome", string(outcome)).Msg("Proposal finalized")
	return outcome, nil
}

// ExecuteProposal disburses a succeeded proposal. Bookkeeping (state +
// funds_released) flips before the registry mint and the value transfer so a
// reentrant call for the same id fails the state preconditions; everything
// runs in one transaction, so any failure unwinds all of it.
func (s *Service) ExecuteProposal(ctx context.Context, proposalID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := getProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if proposal.State != models.ProposalStateSucceeded {
			return ErrProposalNotSucceeded
		}
		if proposal.FundsReleased {
			return ErrFundsAlreadyReleased
		}
		pool, err := getTreasury(tx)
		if err != nil {
			return err
		}
		if pool.Balance < proposal.RequestedAmount {
			return ErrInsufficientTreasury
		}

		proposal.FundsReleased = true
		proposal.State = models.ProposalStateExecuted
		if err := tx.Save(proposal).Error; err != nil {
			return err
		}

		if _, err := s.Registry.Mint(tx, EngineIdentity, proposal.Proposer, proposal.Title, proposal.MetadataRef, now); err != nil {
			return err
		}

		pool.Balance -= proposal.RequestedAmount
		if err := tx.Save(pool).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.TreasuryEntry{
			Type:       models.TreasuryEntryDisbursement,
			Holder:     proposal.Proposer,
			Amount:     proposal.RequestedAmount,
			ProposalID: &proposalID,
		}).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventProposalExecuted, &proposalID, map[string]interface{}{
			"proposal_id": proposalID,
			"amount":      proposal.RequestedAmount,
		})
	})
	if err != nil {
		return err
	}

	log.Info().Uint64("proposal_id", proposalID).Msg("Proposal executed")
	s.publishPending(ctx, pending)
	return nil
}

// CancelProposal lets the proposer withdraw an Active (or Pending) proposal.
func (s *Service) CancelProposal(ctx context.Context, caller string, proposalID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := getProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if proposal.Proposer != caller {
			return ErrNotProposer
		}
		if proposal.State != models.ProposalStateActive && proposal.State != models.ProposalStatePending {
			return ErrProposalNotCancellable
		}

		proposal.State = models.ProposalStateCancelled
		if err := tx.Save(proposal).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventProposalCancelled, &proposalID, map[string]interface{}{
			"proposal_id": proposalID,
		})
	})
	if err != nil {
		return err
	}

	s.publishPending(ctx, pending)
	return nil
}

// UpdateParameters overwrites the DAO parameters. Existing proposals keep the
// windows computed when they were created.
func (s *Service) UpdateParameters(ctx context.Context, caller string, threshold int64, period time.Duration, quorumBps int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := getConfig(tx)
		if err != nil {
			return err
		}
		if caller != cfg.AdminAddress {
			return ErrNotAdmin
		}
		if !validation.IsValidQuorumBps(quorumBps) {
			return ErrQuorumOutOfRange
		}
		if threshold < 0 {
			return ErrInvalidThreshold
		}
		if period <= 0 {
			return ErrInvalidPeriod
		}

		cfg.ProposalThreshold = threshold
		cfg.VotingPeriodSeconds = int64(period / time.Second)
		cfg.QuorumBps = quorumBps
		if err := tx.Save(cfg).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventParametersUpdated, nil, map[string]interface{}{
			"proposal_threshold":    cfg.ProposalThreshold,
			"voting_period_seconds": cfg.VotingPeriodSeconds,
			"quorum_bps":            cfg.QuorumBps,
		})
	})
	if err != nil {
		return err
	}

	s.publishPending(ctx, pending)
	return nil
}

// DepositFunds is the explicit deposit call; it requires a positive amount.
func (s *Service) DepositFunds(ctx context.Context, caller string, amount int64) (int64, error) {
	return s.acceptValue(ctx, caller, amount, models.TreasuryEntryDeposit)
}

// Receive is the unconditional value-transfer entry point: any sender, any
// positive amount, no further validation.
func (s *Service) Receive(ctx context.Context, caller string, amount int64) (int64, error) {
	return s.acceptValue(ctx, caller, amount, models.TreasuryEntryReceive)
}

func (s *Service) acceptValue(ctx context.Context, caller string, amount int64, entryType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64
	var pending []pendingEvent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := getTreasury(tx)
		if err != nil {
			return err
		}
		pool.Balance += amount
		if err := tx.Save(pool).Error; err != nil {
			return err
		}
		newBalance = pool.Balance

		if err := tx.Create(&models.TreasuryEntry{
			Type:   entryType,
			Holder: caller,
			Amount: amount,
		}).Error; err != nil {
			return err
		}

		return emit(tx, &pending, EventFundsDeposited, nil, map[string]interface{}{
			"depositor": caller,
			"amount":    amount,
		})
	})
	if err != nil {
		return 0, err
	}

	s.publishPending(ctx, pending)
	return newBalance, nil
}

// GetProposal returns the full proposal snapshot (vote membership is exposed
// only through HasVoted).
func (s *Service) GetProposal(ctx context.Context, proposalID uint64) (*models.Proposal, error) {
	return getProposal(s.DB.WithContext(ctx), proposalID)
}

// HasVoted reports whether the holder voted on the proposal. Out-of-range ids
// return false rather than an error.
func (s *Service) HasVoted(ctx context.Context, proposalID uint64, holder string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Vote{}).
		Where("proposal_id = ? AND voter = ?", proposalID, holder).
		Count(&count).Error
	return count > 0, err
}

// TreasuryBalance returns the current pool value.
func (s *Service) TreasuryBalance(ctx context.Context) (int64, error) {
	pool, err := getTreasury(s.DB.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return pool.Balance, nil
}

// TreasuryEntries returns the append-only movement log, newest first.
func (s *Service) TreasuryEntries(ctx context.Context) ([]models.TreasuryEntry, error) {
	var entries []models.TreasuryEntry
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&entries).Error
	return entries, err
}

// ProposalCount returns how many proposals have ever been created.
func (s *Service) ProposalCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Proposal{}).Count(&count).Error
	return count, err
}

func getProposal(tx *gorm.DB, proposalID uint64) (*models.Proposal, error) {
	if proposalID == 0 {
		return nil, ErrProposalNotFound
	}
	var proposal models.Proposal
	err := tx.Where("proposal_id = ?", proposalID).First(&proposal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func getConfig(tx *gorm.DB) (*models.DAOConfig, error) {
	var cfg models.DAOConfig
	if err := tx.Where("id = ?", singletonID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func getTreasury(tx *gorm.DB) (*models.TreasuryState, error) {
	var pool models.TreasuryState
	if err := tx.Where("id = ?", singletonID).First(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}
