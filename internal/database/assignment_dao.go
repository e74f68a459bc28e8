package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/oncall/internal/model"
)

type AssignmentDAO struct {
	Logger *slog.Logger
	*DB
}

func NewAssignmentDAO(logger *slog.Logger, db *DB) *AssignmentDAO {
	return &AssignmentDAO{
		Logger: logger.With("dao", "assignment"),
		DB:     db,
	}
}

// _assignmentJoinColumns projects the assignment row together with the
// owning user. The hashed password column is deliberately not selected.
var _assignmentJoinColumns = []string{
	"a.id", "a.created_at", "a.start_at", "a.end_at", "a.notes", "a.user_id", "a.created_by",
	`u.id AS "owner.id"`,
	`u.created_at AS "owner.created_at"`,
	`u.username AS "owner.username"`,
	`u.email AS "owner.email"`,
	`u.full_name AS "owner.full_name"`,
	`u.is_admin AS "owner.is_admin"`,
	`u.is_active AS "owner.is_active"`,
}

func (dao *AssignmentDAO) FindAll(ctx context.Context) ([]model.AssignmentWithUser, error) {
	logger := dao.Logger.With("query", "findAll")

	query, args, err := dao.Builder.
		Select(_assignmentJoinColumns...).
		From("oncall_assignments a").
		Join("users u ON u.id = a.user_id").
		OrderBy("a.start_at DESC", "a.id ASC").
		ToSql()
	if err != nil {
		return []model.AssignmentWithUser{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	assignments := make([]model.AssignmentWithUser, 0)
	if err := dao.SelectContext(ctx, &assignments, query, args...); err != nil {
		if IsNoRows(err) {
			logger.Debug("success query execute", "countAssignments", 0)
			return []model.AssignmentWithUser{}, nil
		}

		logger.Warn("failed query execute", "error", err)

		return []model.AssignmentWithUser{}, err
	}

	logger.Debug("success query execute", "countAssignments", len(assignments))

	return assignments, nil
}

func (dao *AssignmentDAO) Get(ctx context.Context, id model.ID) (model.AssignmentWithUser, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select(_assignmentJoinColumns...).
		From("oncall_assignments a").
		Join("users u ON u.id = a.user_id").
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.AssignmentWithUser{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var assignment model.AssignmentWithUser
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&assignment); err != nil {
		if IsNoRows(err) {
			return model.AssignmentWithUser{}, model.NewError("assignment", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.AssignmentWithUser{}, err
	}

	logger.Debug("success query execute", "assignmentId", assignment.ID)

	return assignment, nil
}

type InsertAssignmentDTO struct {
	User      model.ID
	Start     time.Time
	End       time.Time
	Notes     *string
	CreatedBy model.ID
}

func (dao *AssignmentDAO) Insert(ctx context.Context, dto InsertAssignmentDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("oncall_assignments").
		Columns("user_id", "start_at", "end_at", "notes", "created_by").
		Values(dto.User, dto.Start, dto.End, dto.Notes, dto.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			return 0, model.NewError("user", model.ErrNotFound)
		}
		if IsCheckViolation(err) {
			return 0, model.NewError("assignment window", model.ErrInvalid)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

func (dao *AssignmentDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("oncall_assignments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError("assignment", model.ErrNotFound)
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}
