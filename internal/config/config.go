package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string
	Environment string
	HTTPAddr    string

	// Настройки расписания; раньше жили в глобальном settings-синглтоне,
	// теперь прокидываются в сервисы при сборке
	WeekStartDay time.Weekday
	ClassHourMin int
	ClassHourMax int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:        os.Getenv("DB_DSN"),
		Environment:  os.Getenv("ENV"),
		HTTPAddr:     os.Getenv("HTTP_ADDR"),
		WeekStartDay: time.Sunday,
		ClassHourMin: 13,
		ClassHourMax: 22,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if v := os.Getenv("WEEK_START_DAY"); v != "" {
		day, err := parseWeekday(v)
		if err != nil {
			return nil, err
		}
		cfg.WeekStartDay = day
	}

	if v := os.Getenv("CLASS_HOUR_MIN"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CLASS_HOUR_MIN %q", v)
		}
		cfg.ClassHourMin = h
	}

	if v := os.Getenv("CLASS_HOUR_MAX"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CLASS_HOUR_MAX %q", v)
		}
		cfg.ClassHourMax = h
	}

	if cfg.ClassHourMin < 0 || cfg.ClassHourMax > 24 || cfg.ClassHourMin >= cfg.ClassHourMax {
		return nil, fmt.Errorf("invalid class hour window %d-%d", cfg.ClassHourMin, cfg.ClassHourMax)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	if day, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("invalid WEEK_START_DAY %q", s)
}
