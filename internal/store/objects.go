package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/scene"
)

// ObjectRepository provides CRUD operations for persisted scene objects.
type ObjectRepository struct {
	db *sql.DB
}

// Objects returns the scene object repository for this store.
func (s *Store) Objects() *ObjectRepository {
	return &ObjectRepository{db: s.db}
}

// Create inserts a new scene object.
func (r *ObjectRepository) Create(obj scene.Object) error {
	now := time.Now()

	_, err := r.db.Exec(
		`INSERT INTO scene_objects (id, name, pos_x, pos_y, pos_z, normal_x, normal_y, normal_z, width, height, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		obj.ID, obj.Name,
		obj.Position.X(), obj.Position.Y(), obj.Position.Z(),
		obj.Normal.X(), obj.Normal.Y(), obj.Normal.Z(),
		obj.Width, obj.Height, now, now,
	)
	return err
}

// GetByID retrieves a scene object by its ID.
func (r *ObjectRepository) GetByID(id string) (scene.Object, error) {
	row := r.db.QueryRow(
		`SELECT id, name, pos_x, pos_y, pos_z, normal_x, normal_y, normal_z, width, height
		 FROM scene_objects WHERE id = ?`,
		id,
	)

	obj, err := scanObject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scene.Object{}, ErrNotFound
		}
		return scene.Object{}, err
	}
	return obj, nil
}

// List retrieves all scene objects in creation order.
func (r *ObjectRepository) List() ([]scene.Object, error) {
	rows, err := r.db.Query(
		`SELECT id, name, pos_x, pos_y, pos_z, normal_x, normal_y, normal_z, width, height
		 FROM scene_objects ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []scene.Object
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return objects, nil
}

// Update updates an existing scene object.
func (r *ObjectRepository) Update(obj scene.Object) error {
	result, err := r.db.Exec(
		`UPDATE scene_objects SET name = ?, pos_x = ?, pos_y = ?, pos_z = ?,
		 normal_x = ?, normal_y = ?, normal_z = ?, width = ?, height = ?, updated_at = ?
		 WHERE id = ?`,
		obj.Name,
		obj.Position.X(), obj.Position.Y(), obj.Position.Z(),
		obj.Normal.X(), obj.Normal.Y(), obj.Normal.Z(),
		obj.Width, obj.Height, time.Now(), obj.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a scene object by its ID.
func (r *ObjectRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM scene_objects WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (scene.Object, error) {
	var obj scene.Object
	var px, py, pz, nx, ny, nz float64

	err := row.Scan(&obj.ID, &obj.Name, &px, &py, &pz, &nx, &ny, &nz, &obj.Width, &obj.Height)
	if err != nil {
		return scene.Object{}, err
	}

	obj.Position = mgl64.Vec3{px, py, pz}
	obj.Normal = mgl64.Vec3{nx, ny, nz}
	return obj, nil
}
