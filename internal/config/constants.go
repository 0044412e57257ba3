package config

import "time"

// Base application details
const AppName = "easel"
const AppVersion = "0.3.0"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "easel.log"
const ThemesDirName = "themes"
const DefaultThemeName = "Easel Dark"

// UI Layout
const StatusBarHeight = 1
const DefaultHistoryWidth = 28
const MinHistoryWidth = 12
const DefaultShowHistory = true

// Status Bar
const MessageTimeout = 4 * time.Second

// History
const DefaultMaxDepth = 50
const DefaultSpillThreshold = 64 << 10 // bytes

// New documents
const DefaultDocumentWidth = 64
const DefaultDocumentHeight = 32

const SystemClipboard = true
