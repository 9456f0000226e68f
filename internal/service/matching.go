package service

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"coffeebot/internal/domain"
	"coffeebot/internal/repository"

	"go.uber.org/zap"
)

// recentPartnerLimit is the recency window: partners from this many of
// the user's latest meetings are excluded from re-pairing
const recentPartnerLimit = 5

// topCandidates bounds the randomness of partner selection: one of the
// best-scored candidates is picked instead of always the single best
const topCandidates = 3

// Notifier sends outbound messages to participants. Delivery failures
// are the caller's to log; they never abort a batch.
type Notifier interface {
	SendMatch(ctx context.Context, user, partner domain.User, shared []domain.Interest) error
	SendReminder(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error
	SendFeedbackRequest(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error
	SendReactivation(ctx context.Context, user domain.User) error
}

// MatchService pairs eligible users into meetings
type MatchService struct {
	users     repository.UserRepository
	interests repository.InterestRepository
	meetings  repository.MeetingRepository
	notifier  Notifier
	logger    *zap.Logger
	rng       *rand.Rand

	// mu serializes pairing rounds: a manual trigger that races the
	// scheduled run waits instead of interleaving proposals
	mu sync.Mutex
}

// NewMatchService creates a new match service. The rng is injected so
// rounds are deterministic under a fixed seed.
func NewMatchService(
	users repository.UserRepository,
	interests repository.InterestRepository,
	meetings repository.MeetingRepository,
	notifier Notifier,
	logger *zap.Logger,
	rng *rand.Rand,
) *MatchService {
	return &MatchService{
		users:     users,
		interests: interests,
		meetings:  meetings,
		notifier:  notifier,
		logger:    logger,
		rng:       rng,
	}
}

// EligibleUsers returns the pool allowed to enter a pairing round.
// An empty pool is valid and means the round is skipped.
func (s *MatchService) EligibleUsers() ([]domain.User, error) {
	return s.users.ListEligible()
}

// candidate is a scored potential partner
type candidate struct {
	user  domain.User
	score int
}

// RunPairing executes one pairing round: shuffle the eligible pool,
// greedily propose pairs favoring shared interests, then apply the
// odd-count correction. Returns the created meetings.
func (s *MatchService) RunPairing(ctx context.Context) ([]domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.EligibleUsers()
	if err != nil {
		return nil, err
	}
	if len(pool) < 2 {
		s.logger.Info("Not enough eligible users for pairing", zap.Int("pool_size", len(pool)))
		return nil, nil
	}

	interestIDs, err := s.loadInterestIDs(pool)
	if err != nil {
		return nil, err
	}
	recentPartners, err := s.loadRecentPartners(pool)
	if err != nil {
		return nil, err
	}

	available := make([]domain.User, len(pool))
	copy(available, pool)
	s.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	var created []domain.Meeting
	var unmatched []domain.User

	for len(available) > 0 {
		user := available[0]
		available = available[1:]

		candidates := s.selectCandidates(user, available, interestIDs, recentPartners[user.TelegramID])
		if len(candidates) == 0 {
			unmatched = append(unmatched, user)
			continue
		}

		partner := s.pickPartner(candidates)
		available = removeUser(available, partner.TelegramID)

		meeting := domain.Meeting{User1ID: user.TelegramID, User2ID: partner.TelegramID}
		if err := s.meetings.Create(&meeting); err != nil {
			return created, err
		}
		created = append(created, meeting)
	}

	created, err = s.resolveOddCount(created, unmatched, len(pool))
	if err != nil {
		return created, err
	}

	s.logger.Info("Pairing round completed",
		zap.Int("pool_size", len(pool)),
		zap.Int("meetings_created", len(created)),
		zap.Int("unmatched", len(unmatched)),
	)

	s.notifyMatches(ctx, created, interestIDs)
	return created, nil
}

// selectCandidates filters the remaining pool for one user: no recent
// partners, no incompatible formats
func (s *MatchService) selectCandidates(
	user domain.User,
	available []domain.User,
	interestIDs map[int64][]int64,
	recent map[int64]struct{},
) []candidate {
	var candidates []candidate
	for _, other := range available {
		if _, wasRecent := recent[other.TelegramID]; wasRecent {
			continue
		}
		if !user.MeetingFormat.CompatibleWith(other.MeetingFormat) {
			continue
		}
		shared := domain.CommonInterestIDs(interestIDs[user.TelegramID], interestIDs[other.TelegramID])
		candidates = append(candidates, candidate{user: other, score: len(shared)})
	}
	return candidates
}

// pickPartner picks uniformly among the best-scored candidates
func (s *MatchService) pickPartner(candidates []candidate) domain.User {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	top := len(candidates)
	if top > topCandidates {
		top = topCandidates
	}
	return candidates[s.rng.Intn(top)].user
}

// resolveOddCount dissolves the most recent pair into a trio when
// exactly one user is left over and the pool had at least 3 users
func (s *MatchService) resolveOddCount(
	created []domain.Meeting,
	unmatched []domain.User,
	poolSize int,
) ([]domain.Meeting, error) {
	if len(unmatched) != 1 || poolSize < 3 || len(created) == 0 {
		return created, nil
	}

	last := created[len(created)-1]
	leftover := unmatched[0].TelegramID

	if err := s.meetings.Delete(last.ID); err != nil {
		return created, err
	}

	first := domain.Meeting{User1ID: last.User1ID, User2ID: leftover}
	if err := s.meetings.Create(&first); err != nil {
		return created[:len(created)-1], err
	}
	second := domain.Meeting{User1ID: last.User2ID, User2ID: leftover}
	if err := s.meetings.Create(&second); err != nil {
		return append(created[:len(created)-1], first), err
	}

	s.logger.Info("Formed a trio for the leftover user",
		zap.Int64("leftover_id", leftover),
		zap.Int64("dissolved_meeting_id", last.ID),
	)

	created[len(created)-1] = first
	return append(created, second), nil
}

// notifyMatches announces created meetings to both participants.
// Per-recipient failures are logged and never abort the loop.
func (s *MatchService) notifyMatches(ctx context.Context, meetings []domain.Meeting, interestIDs map[int64][]int64) {
	for _, meeting := range meetings {
		user1, err := s.users.GetByTelegramID(meeting.User1ID)
		if err != nil || user1 == nil {
			s.logger.Warn("Skipping match notification, participant not found",
				zap.Int64("user_id", meeting.User1ID), zap.Error(err))
			continue
		}
		user2, err := s.users.GetByTelegramID(meeting.User2ID)
		if err != nil || user2 == nil {
			s.logger.Warn("Skipping match notification, participant not found",
				zap.Int64("user_id", meeting.User2ID), zap.Error(err))
			continue
		}

		shared := s.sharedInterests(meeting.User1ID, meeting.User2ID, interestIDs)

		if err := s.notifier.SendMatch(ctx, *user1, *user2, shared); err != nil {
			s.logger.Warn("Failed to deliver match notification",
				zap.Int64("user_id", user1.TelegramID), zap.Error(err))
		}
		if err := s.notifier.SendMatch(ctx, *user2, *user1, shared); err != nil {
			s.logger.Warn("Failed to deliver match notification",
				zap.Int64("user_id", user2.TelegramID), zap.Error(err))
		}
	}
}

func (s *MatchService) sharedInterests(user1ID, user2ID int64, interestIDs map[int64][]int64) []domain.Interest {
	common := domain.CommonInterestIDs(interestIDs[user1ID], interestIDs[user2ID])
	if len(common) == 0 {
		return nil
	}

	all, err := s.interests.ListAll()
	if err != nil {
		s.logger.Warn("Failed to load interests for notification", zap.Error(err))
		return nil
	}

	byID := make(map[int64]domain.Interest, len(all))
	for _, interest := range all {
		byID[interest.ID] = interest
	}

	var shared []domain.Interest
	for _, id := range common {
		if interest, ok := byID[id]; ok {
			shared = append(shared, interest)
		}
	}
	return shared
}

func (s *MatchService) loadInterestIDs(pool []domain.User) (map[int64][]int64, error) {
	ids := make(map[int64][]int64, len(pool))
	for _, user := range pool {
		interests, err := s.interests.GetForUser(user.TelegramID)
		if err != nil {
			return nil, err
		}
		for _, interest := range interests {
			ids[user.TelegramID] = append(ids[user.TelegramID], interest.ID)
		}
	}
	return ids, nil
}

func (s *MatchService) loadRecentPartners(pool []domain.User) (map[int64]map[int64]struct{}, error) {
	recent := make(map[int64]map[int64]struct{}, len(pool))
	for _, user := range pool {
		partnerIDs, err := s.meetings.RecentPartnerIDs(user.TelegramID, recentPartnerLimit)
		if err != nil {
			return nil, err
		}
		set := make(map[int64]struct{}, len(partnerIDs))
		for _, id := range partnerIDs {
			set[id] = struct{}{}
		}
		recent[user.TelegramID] = set
	}
	return recent, nil
}

func removeUser(users []domain.User, telegramID int64) []domain.User {
	for i, u := range users {
		if u.TelegramID == telegramID {
			return append(users[:i], users[i+1:]...)
		}
	}
	return users
}
