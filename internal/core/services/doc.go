// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the filesystem, database or browser directly;
// everything outside the process goes through a driven port.
package services
