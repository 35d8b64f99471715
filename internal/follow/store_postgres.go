package follow

import (
	"context"

	"backend-cuisinequest/internal/db"
)

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Find(ctx context.Context, followerID, followeeID string) ([]Edge, error) {
	return s.query(ctx, `
		SELECT id, follower_id, followee_id, created_at
		FROM follow_edges
		WHERE follower_id=$1 AND followee_id=$2
		ORDER BY created_at
	`, followerID, followeeID)
}

func (s *PostgresStore) Insert(ctx context.Context, edge Edge) error {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO follow_edges (id, follower_id, followee_id, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT DO NOTHING
	`, edge.ID, edge.FollowerID, edge.FolloweeID, edge.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEdge
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM follow_edges WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEdgeNotFound
	}
	return nil
}

func (s *PostgresStore) ListByFollower(ctx context.Context, followerID string) ([]Edge, error) {
	return s.query(ctx, `
		SELECT id, follower_id, followee_id, created_at
		FROM follow_edges
		WHERE follower_id=$1
		ORDER BY created_at
	`, followerID)
}

func (s *PostgresStore) ListByFollowee(ctx context.Context, followeeID string) ([]Edge, error) {
	return s.query(ctx, `
		SELECT id, follower_id, followee_id, created_at
		FROM follow_edges
		WHERE followee_id=$1
		ORDER BY created_at
	`, followeeID)
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Edge, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FollowerID, &e.FolloweeID, &e.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
