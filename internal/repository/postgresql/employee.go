package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, user_id, employee_code, full_name, department, manager_id,
	leave_days_entitlement, employment_status, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FullName, &e.Department, &e.ManagerID,
		&e.LeaveDaysEntitlement, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	if !validator.IsValidUUID(userID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user id: %w", err)
	}

	return e, nil
}

// ListByManager implements employee.EmployeeRepository.
func (r *employeeRepository) ListByManager(ctx context.Context, managerUserID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE manager_id = $1 AND employment_status = 'active'
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, managerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by manager: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
