// Package keypath implements the navigation-path bookkeeping the protocol
// renderer (component O) needs (component K): every association path
// reachable from an entity ($edmTgtPaths), the {path, target} binding pairs
// those paths resolve to ($edmNPBs), and each entity's own primary-key
// element paths ($edmKeyPaths).
package keypath
