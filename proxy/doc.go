// Package proxy implements cross-schema reachability (component X): when
// an association crosses from one service's entities into another
// service's (or an un-serviced) entity, a key-only proxy entity is
// synthesized inside the source service instead of exposing the foreign
// entity set directly, and proxies are cached per (target, service) pair
// so the same cross-service reference is never synthesized twice.
package proxy
