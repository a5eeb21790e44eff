package store

import (
	"context"
	"encoding/json"
	"errors"

	"word-imposter/internal/db"
	"word-imposter/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres is the production session store backed by GORM. Atomic maps to a
// database transaction; score increments run as UPDATE ... SET x = x + delta
// so concurrent phase-advance calls cannot lose updates.
type Postgres struct {
	db   *gorm.DB
	inTx bool
}

func NewPostgres(conn *gorm.DB) *Postgres {
	return &Postgres{db: conn}
}

func (s *Postgres) Atomic(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Postgres{db: tx, inTx: true})
	})
}

func (s *Postgres) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Postgres) CreateLobby(ctx context.Context, lobby game.Lobby, host game.Player) error {
	run := func(tx *gorm.DB) error {
		if err := tx.Create(lobbyRecord(lobby)).Error; err != nil {
			return translate(err)
		}
		if err := tx.Create(playerRecord(host)).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Create(&db.Score{LobbyCode: lobby.Code, PlayerID: host.ID}).Error)
	}
	if s.inTx {
		return run(s.conn(ctx))
	}
	return s.conn(ctx).Transaction(run)
}

func (s *Postgres) GetLobby(ctx context.Context, code string) (game.Lobby, error) {
	var record db.Lobby
	if err := s.conn(ctx).Where("code = ?", code).First(&record).Error; err != nil {
		return game.Lobby{}, translate(err)
	}
	return lobbyFromRecord(record), nil
}

func (s *Postgres) SaveLobby(ctx context.Context, lobby game.Lobby) error {
	updates := map[string]any{
		"status":         lobby.Status,
		"category":       lobby.Category,
		"round_duration": lobby.RoundDurationSeconds,
		"total_rounds":   lobby.TotalRounds,
		"current_round":  lobby.CurrentRound,
	}
	result := s.conn(ctx).Model(&db.Lobby{}).Where("code = ?", lobby.Code).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) AddPlayer(ctx context.Context, player game.Player) error {
	run := func(tx *gorm.DB) error {
		if err := tx.Create(playerRecord(player)).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Create(&db.Score{LobbyCode: player.LobbyCode, PlayerID: player.ID}).Error)
	}
	if s.inTx {
		return run(s.conn(ctx))
	}
	return s.conn(ctx).Transaction(run)
}

func (s *Postgres) GetPlayer(ctx context.Context, code, playerID string) (game.Player, error) {
	var record db.Player
	err := s.conn(ctx).Where("lobby_code = ? AND id = ?", code, playerID).First(&record).Error
	if err != nil {
		return game.Player{}, translate(err)
	}
	return playerFromRecord(record), nil
}

func (s *Postgres) ListPlayers(ctx context.Context, code string) ([]game.Player, error) {
	var records []db.Player
	err := s.conn(ctx).Where("lobby_code = ?", code).Order("joined_at asc, id asc").Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	players := make([]game.Player, 0, len(records))
	for _, r := range records {
		players = append(players, playerFromRecord(r))
	}
	return players, nil
}

func (s *Postgres) CreateRound(ctx context.Context, round game.Round) error {
	return translate(s.conn(ctx).Create(roundRecord(round)).Error)
}

func (s *Postgres) GetRound(ctx context.Context, code string, number int) (game.Round, error) {
	var record db.Round
	query := s.conn(ctx)
	if s.inTx {
		// Lock the row so racing phase-advance calls serialize on it.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("lobby_code = ? AND round_number = ?", code, number).First(&record).Error
	if err != nil {
		return game.Round{}, translate(err)
	}
	return roundFromRecord(record), nil
}

func (s *Postgres) SaveRound(ctx context.Context, round game.Round) error {
	updates := map[string]any{
		"phase":            round.Phase,
		"round_start_time": round.StartedAt,
		"round_end_time":   round.EndedAt,
	}
	result := s.conn(ctx).Model(&db.Round{}).
		Where("lobby_code = ? AND round_number = ?", round.LobbyCode, round.Number).
		Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) UpsertVote(ctx context.Context, vote game.Vote) error {
	record := db.Vote{
		LobbyCode:   vote.LobbyCode,
		RoundNumber: vote.RoundNumber,
		VoterID:     vote.VoterID,
		VotedForID:  vote.VotedForID,
	}
	return translate(s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lobby_code"}, {Name: "round_number"}, {Name: "voter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"voted_for_id", "updated_at"}),
	}).Create(&record).Error)
}

func (s *Postgres) ListVotes(ctx context.Context, code string, round int) ([]game.Vote, error) {
	var records []db.Vote
	err := s.conn(ctx).Where("lobby_code = ? AND round_number = ?", code, round).
		Order("id asc").Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	votes := make([]game.Vote, 0, len(records))
	for _, r := range records {
		votes = append(votes, game.Vote{
			LobbyCode:   r.LobbyCode,
			RoundNumber: r.RoundNumber,
			VoterID:     r.VoterID,
			VotedForID:  r.VotedForID,
		})
	}
	return votes, nil
}

func (s *Postgres) AddElimination(ctx context.Context, e game.Elimination) error {
	record := db.Elimination{
		LobbyCode:   e.LobbyCode,
		RoundNumber: e.RoundNumber,
		PlayerID:    e.PlayerID,
	}
	return translate(s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error)
}

func (s *Postgres) ListEliminations(ctx context.Context, code string) ([]game.Elimination, error) {
	var records []db.Elimination
	err := s.conn(ctx).Where("lobby_code = ?", code).Order("id asc").Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	eliminations := make([]game.Elimination, 0, len(records))
	for _, r := range records {
		eliminations = append(eliminations, game.Elimination{
			LobbyCode:   r.LobbyCode,
			RoundNumber: r.RoundNumber,
			PlayerID:    r.PlayerID,
		})
	}
	return eliminations, nil
}

func (s *Postgres) ApplyScoreDeltas(ctx context.Context, code string, deltas []game.ScoreDelta) error {
	for _, delta := range deltas {
		updates := map[string]any{}
		if delta.TotalScore != 0 {
			updates["total_score"] = gorm.Expr("total_score + ?", delta.TotalScore)
		}
		if delta.CorrectVotes != 0 {
			updates["correct_votes"] = gorm.Expr("correct_votes + ?", delta.CorrectVotes)
		}
		if delta.SurvivedAsImposter != 0 {
			updates["survived_as_imposter"] = gorm.Expr("survived_as_imposter + ?", delta.SurvivedAsImposter)
		}
		if delta.RoundsAsImposter != 0 {
			updates["rounds_as_imposter"] = gorm.Expr("rounds_as_imposter + ?", delta.RoundsAsImposter)
		}
		if len(updates) == 0 {
			continue
		}
		result := s.conn(ctx).Model(&db.Score{}).
			Where("lobby_code = ? AND player_id = ?", code, delta.PlayerID).
			Updates(updates)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (s *Postgres) ListScores(ctx context.Context, code string) ([]game.Score, error) {
	var records []db.Score
	err := s.conn(ctx).Where("lobby_code = ?", code).Order("id asc").Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	scores := make([]game.Score, 0, len(records))
	for _, r := range records {
		scores = append(scores, game.Score{
			LobbyCode:          r.LobbyCode,
			PlayerID:           r.PlayerID,
			TotalScore:         r.TotalScore,
			CorrectVotes:       r.CorrectVotes,
			SurvivedAsImposter: r.SurvivedAsImposter,
			RoundsAsImposter:   r.RoundsAsImposter,
		})
	}
	return scores, nil
}

func (s *Postgres) AddHistory(ctx context.Context, entries []game.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]db.GameHistoryEntry, 0, len(entries))
	for _, e := range entries {
		records = append(records, db.GameHistoryEntry{
			LobbyCode:          e.LobbyCode,
			PlayerID:           e.PlayerID,
			PlayerName:         e.PlayerName,
			OpponentName:       e.OpponentName,
			Won:                e.Won,
			WasImposter:        e.WasImposter,
			CaughtAsImposter:   e.CaughtAsImposter,
			SurvivedAsImposter: e.SurvivedAsImposter,
			PlayedAt:           e.PlayedAt,
		})
	}
	return translate(s.conn(ctx).Create(&records).Error)
}

func (s *Postgres) ListHistoryForPlayer(ctx context.Context, playerName string) ([]game.HistoryEntry, error) {
	var records []db.GameHistoryEntry
	err := s.conn(ctx).Where("LOWER(player_name) = LOWER(?)", playerName).
		Order("played_at asc, id asc").Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	entries := make([]game.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, game.HistoryEntry{
			LobbyCode:          r.LobbyCode,
			PlayerID:           r.PlayerID,
			PlayerName:         r.PlayerName,
			OpponentName:       r.OpponentName,
			Won:                r.Won,
			WasImposter:        r.WasImposter,
			CaughtAsImposter:   r.CaughtAsImposter,
			SurvivedAsImposter: r.SurvivedAsImposter,
			PlayedAt:           r.PlayedAt,
		})
	}
	return entries, nil
}

func (s *Postgres) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.conn(ctx).Model(&db.WordCategory{}).Order("category asc").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *Postgres) GetCategoryWords(ctx context.Context, category string) ([]string, error) {
	var record db.WordCategory
	if err := s.conn(ctx).Where("category = ?", category).First(&record).Error; err != nil {
		return nil, translate(err)
	}
	var words []string
	if err := json.Unmarshal(record.Words, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func lobbyRecord(lobby game.Lobby) *db.Lobby {
	return &db.Lobby{
		Code:          lobby.Code,
		HostPlayerID:  lobby.HostPlayerID,
		Status:        lobby.Status,
		Category:      lobby.Category,
		RoundDuration: lobby.RoundDurationSeconds,
		TotalRounds:   lobby.TotalRounds,
		CurrentRound:  lobby.CurrentRound,
		CreatedAt:     lobby.CreatedAt,
	}
}

func lobbyFromRecord(r db.Lobby) game.Lobby {
	return game.Lobby{
		Code:                 r.Code,
		HostPlayerID:         r.HostPlayerID,
		Status:               r.Status,
		Category:             r.Category,
		RoundDurationSeconds: r.RoundDuration,
		TotalRounds:          r.TotalRounds,
		CurrentRound:         r.CurrentRound,
		CreatedAt:            r.CreatedAt,
	}
}

func playerRecord(player game.Player) *db.Player {
	return &db.Player{
		ID:          player.ID,
		LobbyCode:   player.LobbyCode,
		Name:        player.Name,
		AvatarColor: player.AvatarColor,
		IsHost:      player.IsHost,
		JoinedAt:    player.JoinedAt,
	}
}

func playerFromRecord(r db.Player) game.Player {
	return game.Player{
		ID:          r.ID,
		LobbyCode:   r.LobbyCode,
		Name:        r.Name,
		AvatarColor: r.AvatarColor,
		IsHost:      r.IsHost,
		JoinedAt:    r.JoinedAt,
	}
}

func roundRecord(round game.Round) *db.Round {
	return &db.Round{
		LobbyCode:      round.LobbyCode,
		RoundNumber:    round.Number,
		ImposterID:     round.ImposterID,
		Word:           round.Word,
		Category:       round.Category,
		Phase:          round.Phase,
		RoundStartTime: round.StartedAt,
		RoundEndTime:   round.EndedAt,
	}
}

func roundFromRecord(r db.Round) game.Round {
	return game.Round{
		LobbyCode:  r.LobbyCode,
		Number:     r.RoundNumber,
		ImposterID: r.ImposterID,
		Word:       r.Word,
		Category:   r.Category,
		Phase:      r.Phase,
		StartedAt:  r.RoundStartTime,
		EndedAt:    r.RoundEndTime,
	}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
