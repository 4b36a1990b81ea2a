// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"govportal/internal/model"
)

// --- Contractors ---

const contractorColumns = `id, name, registration_number, address, phone, email, created_at, updated_at`

func scanContractor(s interface{ Scan(...any) error }) (model.Contractor, error) {
	var c model.Contractor
	err := s.Scan(&c.ID, &c.Name, &c.RegistrationNumber, &c.Address, &c.Phone,
		&c.Email, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetContractorByID returns a contractor by primary key.
func (q *Queries) GetContractorByID(ctx context.Context, id int64) (model.Contractor, error) {
	return scanContractor(q.db.QueryRowContext(ctx,
		`SELECT `+contractorColumns+` FROM contractors WHERE id = ?`, id))
}

// CreateContractorParams holds the fields for CreateContractor.
type CreateContractorParams struct {
	Name               string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string
}

// CreateContractor inserts a contractor. A duplicate registration number
// returns ErrDuplicateKey.
func (q *Queries) CreateContractor(ctx context.Context, p CreateContractorParams) (model.Contractor, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contractors (name, registration_number, address, phone, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.RegistrationNumber, p.Address, p.Phone, p.Email, now, now)
	if err != nil {
		return model.Contractor{}, mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Contractor{}, err
	}
	return q.GetContractorByID(ctx, id)
}

// UpdateContractorParams holds the fields for UpdateContractor.
type UpdateContractorParams struct {
	ID                 int64
	Name               string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string
}

// UpdateContractor overwrites a contractor. Changing the registration number
// risks collision; a duplicate returns ErrDuplicateKey.
func (q *Queries) UpdateContractor(ctx context.Context, p UpdateContractorParams) (model.Contractor, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE contractors SET name = ?, registration_number = ?, address = ?,
		   phone = ?, email = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.RegistrationNumber, p.Address, p.Phone, p.Email, time.Now(), p.ID)
	if err != nil {
		return model.Contractor{}, mapWriteError(err)
	}
	return q.GetContractorByID(ctx, p.ID)
}

// DeleteContractor removes a contractor.
func (q *Queries) DeleteContractor(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM contractors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListContractors returns all contractors ordered by name.
func (q *Queries) ListContractors(ctx context.Context) ([]model.Contractor, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contractorColumns+` FROM contractors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CountContractors counts contractors.
func (q *Queries) CountContractors(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contractors`).Scan(&n)
	return n, err
}

// --- Goods categories ---

const categoryColumns = `id, name, created_at, updated_at`

func scanCategory(s interface{ Scan(...any) error }) (model.GoodsCategory, error) {
	var c model.GoodsCategory
	err := s.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetCategoryByID returns a goods category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.GoodsCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM goods_categories WHERE id = ?`, id))
}

// CreateCategory inserts a goods category. A duplicate name returns
// ErrDuplicateKey.
func (q *Queries) CreateCategory(ctx context.Context, name string) (model.GoodsCategory, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goods_categories (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, now, now)
	if err != nil {
		return model.GoodsCategory{}, mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.GoodsCategory{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategory renames a goods category.
func (q *Queries) UpdateCategory(ctx context.Context, id int64, name string) (model.GoodsCategory, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE goods_categories SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id)
	if err != nil {
		return model.GoodsCategory{}, mapWriteError(err)
	}
	return q.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a goods category.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM goods_categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListCategories returns all goods categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.GoodsCategory, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM goods_categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.GoodsCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// --- Procurement items ---

const procurementColumns = `id, title, reference_number, description, budget,
	COALESCE(contractor_id, 0), COALESCE(category_id, 0), created_at, updated_at`

func scanProcurement(s interface{ Scan(...any) error }) (model.ProcurementItem, error) {
	var p model.ProcurementItem
	err := s.Scan(&p.ID, &p.Title, &p.ReferenceNumber, &p.Description, &p.Budget,
		&p.ContractorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProcurementByID returns a procurement item by primary key.
func (q *Queries) GetProcurementByID(ctx context.Context, id int64) (model.ProcurementItem, error) {
	return scanProcurement(q.db.QueryRowContext(ctx,
		`SELECT `+procurementColumns+` FROM procurement_items WHERE id = ?`, id))
}

// CreateProcurementParams holds the fields for CreateProcurement.
type CreateProcurementParams struct {
	Title           string
	ReferenceNumber string
	Description     string
	Budget          int64
	ContractorID    int64
	CategoryID      int64
}

// CreateProcurement inserts a procurement item. A duplicate reference number
// returns ErrDuplicateKey.
func (q *Queries) CreateProcurement(ctx context.Context, p CreateProcurementParams) (model.ProcurementItem, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO procurement_items (title, reference_number, description, budget,
		   contractor_id, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.ReferenceNumber, p.Description, p.Budget,
		nullableID(p.ContractorID), nullableID(p.CategoryID), now, now)
	if err != nil {
		return model.ProcurementItem{}, mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.ProcurementItem{}, err
	}
	return q.GetProcurementByID(ctx, id)
}

// UpdateProcurementParams holds the fields for UpdateProcurement.
type UpdateProcurementParams struct {
	ID              int64
	Title           string
	ReferenceNumber string
	Description     string
	Budget          int64
	ContractorID    int64
	CategoryID      int64
}

// UpdateProcurement overwrites a procurement item.
func (q *Queries) UpdateProcurement(ctx context.Context, p UpdateProcurementParams) (model.ProcurementItem, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE procurement_items SET title = ?, reference_number = ?, description = ?,
		   budget = ?, contractor_id = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.ReferenceNumber, p.Description, p.Budget,
		nullableID(p.ContractorID), nullableID(p.CategoryID), time.Now(), p.ID)
	if err != nil {
		return model.ProcurementItem{}, mapWriteError(err)
	}
	return q.GetProcurementByID(ctx, p.ID)
}

// DeleteProcurement removes a procurement item.
func (q *Queries) DeleteProcurement(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM procurement_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListProcurements returns procurement items, newest first.
func (q *Queries) ListProcurements(ctx context.Context, limit, offset int64) ([]model.ProcurementItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+procurementColumns+` FROM procurement_items
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ProcurementItem
	for rows.Next() {
		p, err := scanProcurement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CountProcurements counts procurement items.
func (q *Queries) CountProcurements(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM procurement_items`).Scan(&n)
	return n, err
}

// nullableID maps a zero ID to NULL for optional foreign keys.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
