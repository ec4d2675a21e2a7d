package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// TimerDefaults reads the countdown form defaults. Unparsable stored values
// fall back to 5 minutes and 30 seconds.
func (s *Store) TimerDefaults() (TimerDefaults, error) {
	d := TimerDefaults{Minutes: 5, WarnSeconds: 30}
	minutes, err := s.GetSetting(SettingTimerMinutes)
	if err != nil {
		return d, err
	}
	warn, err := s.GetSetting(SettingTimerWarn)
	if err != nil {
		return d, err
	}
	if v, err := strconv.ParseFloat(minutes, 64); err == nil && v > 0 {
		d.Minutes = v
	}
	if v, err := strconv.Atoi(warn); err == nil && v >= 1 {
		d.WarnSeconds = v
	}
	return d, nil
}

// SetTimerDefaults stores the countdown form defaults.
func (s *Store) SetTimerDefaults(d TimerDefaults) error {
	if d.Minutes <= 0 || d.WarnSeconds < 1 {
		return fmt.Errorf("timer defaults out of range: %v minutes, %d seconds", d.Minutes, d.WarnSeconds)
	}
	if err := s.SetSetting(SettingTimerMinutes, strconv.FormatFloat(d.Minutes, 'f', -1, 64)); err != nil {
		return err
	}
	return s.SetSetting(SettingTimerWarn, strconv.Itoa(d.WarnSeconds))
}
