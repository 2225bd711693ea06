// Package ui contains the Bubble Tea program that renders the navigation
// shell: the section rail, the sub-section row, the tab row, the routed
// feature panel and the overlays drawn on top of them.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg is
//     routed through a typed handler registry to a focused function (keys,
//     mouse, window size, backend events, bridge notifications).
//   - Pointer events are hit-tested against bubblezone zones and turned into
//     enter/leave/click calls on the navigation coordinator
//     (internal/ui/navigation.go). The coordinator owns every decision about
//     hover, lock and the grace timer; the UI only renders its snapshot.
//   - The jump palette keeps its query, cursor and viewport in
//     internal/ui/state.List (internal/ui/input.go handles its keys).
//
// State ownership:
//   - The shell (internal/shell) owns the overlay registry and host, the
//     coordinator and the tree store. The model attaches its own overlays to
//     that registry and mounts their content on the host at render time, so
//     blocking and backdrop come from the same counts the bridge feeds.
//   - Actions with side effects (reload, palette jumps) run through the
//     internal/ui/command bus so they are traced like any other command.
//
// Backend interactions:
//   - A backend.Watcher streams fetched trees; Update waits for those events
//     and hands them to applyBackendEvent, which feeds the dispatcher and
//     refreshes the palette.
//   - Coordinator changes that happen outside Update (timer callbacks) arrive
//     as NavChangedMsg; the model always re-reads the snapshot itself.
package ui
