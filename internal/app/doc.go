// Package app wires application dependencies for the CLI.
//
// It loads dhlib.ini, builds the engine, stores, exchange client and
// services from Config, and exposes them via the App struct for commands to
// use.
package app
