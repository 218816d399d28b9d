package config

import (
    "os"
    "strconv"
    "time"
)

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch os.Getenv(k) {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    n, err := strconv.Atoi(os.Getenv(k))
    if err != nil {
        return d
    }
    return n
}

func envDur(k string, d time.Duration) time.Duration {
    dur, err := time.ParseDuration(os.Getenv(k))
    if err != nil {
        return d
    }
    return dur
}
