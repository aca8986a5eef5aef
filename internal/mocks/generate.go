// Package mocks holds generated gomock doubles for the console's ports.
package mocks

//go:generate go run go.uber.org/mock/mockgen -destination=navigator_mock.go -package=mocks github.com/aussiebroadwan/botadmin/internal/console/service Navigator
