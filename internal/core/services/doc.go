// Package services contains the core business logic.
//
// Services implement the driving ports and depend only on domain
// types, driven ports and the conversion pipeline packages. They know
// nothing about cobra or any other adapter concern.
//
//   - ConvertService: single-file XML to JSON/CSV conversion
//   - BatchService: directory-wide conversion under a worker pool
//   - WatchService: continuous conversion of newly arriving files
package services
