package log

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Category selects which log stream a message goes to.
type Category int

const (
	Application Category = iota
	Menu
	Database
)

type Logger struct {
	application *log.Logger
	menu        *log.Logger
	database    *log.Logger
	error       *log.Logger
	files       []*lumberjack.Logger
}

// globalLogger starts console-only so packages can log before Setup
// runs (and in tests, which never call Setup).
var globalLogger = consoleLogger()

func consoleLogger() *Logger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &Logger{
		application: log.New(os.Stdout, "", flags),
		menu:        log.New(os.Stdout, "", flags),
		database:    log.New(os.Stdout, "", flags),
		error:       log.New(os.Stderr, "", flags),
	}
}

func rotatingFile(logDir, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

// Setup switches the global logger to rotating files under logDir,
// mirroring every stream to the console.
func Setup(logDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	appFile := rotatingFile(logDir, "application.log")
	menuFile := rotatingFile(logDir, "menu_events.log")
	dbFile := rotatingFile(logDir, "database.log")
	errFile := rotatingFile(logDir, "error.log")

	flags := log.LstdFlags | log.Lmicroseconds
	globalLogger = &Logger{
		application: log.New(io.MultiWriter(os.Stdout, appFile), "", flags),
		menu:        log.New(io.MultiWriter(os.Stdout, menuFile), "", flags),
		database:    log.New(io.MultiWriter(os.Stdout, dbFile), "", flags),
		error:       log.New(io.MultiWriter(os.Stderr, errFile), "", flags),
		files:       []*lumberjack.Logger{appFile, menuFile, dbFile, errFile},
	}
	return nil
}

// Close closes the rotating file writers, if Setup installed any.
func Close() error {
	var first error
	for _, f := range globalLogger.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (l *Logger) stream(category Category) *log.Logger {
	switch category {
	case Menu:
		return l.menu
	case Database:
		return l.database
	default:
		return l.application
	}
}

func Info(category Category, message string) {
	globalLogger.stream(category).Println(message)
}

func Infof(category Category, format string, v ...interface{}) {
	globalLogger.stream(category).Printf(format, v...)
}

func Warnf(category Category, format string, v ...interface{}) {
	globalLogger.stream(category).Printf("WARN: "+format, v...)
}

func Error(message string) {
	globalLogger.error.Println(message)
}

func Errorf(format string, v ...interface{}) {
	globalLogger.error.Printf(format, v...)
}
