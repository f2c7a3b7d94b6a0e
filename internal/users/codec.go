package users

import (
	"fmt"
	"strconv"
	"time"

	"github.com/supershop/supershop/internal/platform/recordstore"
)

const timeLayout = "2006-01-02 15:04:05"

func encodeUser(u User) recordstore.Record {
	lastLogin := ""
	if !u.LastLoginAt.IsZero() {
		lastLogin = u.LastLoginAt.Format(timeLayout)
	}
	return recordstore.Record{
		u.Name,
		u.Mobile,
		u.PasswordHash,
		strconv.Itoa(u.Age),
		strconv.FormatBool(u.IsAdmin),
		strconv.FormatBool(u.IsVIP),
		u.RegisteredAt.Format(timeLayout),
		lastLogin,
		strconv.FormatBool(u.IsActive),
	}
}

func decodeUser(rec recordstore.Record) (User, error) {
	if len(rec) != 9 {
		return User{}, fmt.Errorf("users: user record has %d fields, want 9", len(rec))
	}
	age, err := strconv.Atoi(rec[3])
	if err != nil {
		return User{}, fmt.Errorf("users: age: %w", err)
	}
	isAdmin, err := strconv.ParseBool(rec[4])
	if err != nil {
		return User{}, fmt.Errorf("users: admin flag: %w", err)
	}
	isVIP, err := strconv.ParseBool(rec[5])
	if err != nil {
		return User{}, fmt.Errorf("users: vip flag: %w", err)
	}
	registered, err := time.ParseInLocation(timeLayout, rec[6], time.Local)
	if err != nil {
		return User{}, fmt.Errorf("users: registration date: %w", err)
	}
	var lastLogin time.Time
	if rec[7] != "" {
		lastLogin, err = time.ParseInLocation(timeLayout, rec[7], time.Local)
		if err != nil {
			return User{}, fmt.Errorf("users: last login date: %w", err)
		}
	}
	isActive, err := strconv.ParseBool(rec[8])
	if err != nil {
		return User{}, fmt.Errorf("users: active flag: %w", err)
	}
	return User{
		Name:         rec[0],
		Mobile:       rec[1],
		PasswordHash: rec[2],
		Age:          age,
		IsAdmin:      isAdmin,
		IsVIP:        isVIP,
		RegisteredAt: registered,
		LastLoginAt:  lastLogin,
		IsActive:     isActive,
	}, nil
}
