// Package docker reads host ports published by Docker containers so that
// port-for never hands out a port a container already claims.
//
// A container's published port is only bound on the host while the
// container runs, so a plain probe misses ports of stopped containers
// that will come back on restart. The Engine API
// (github.com/docker/docker/client) covers both: running containers
// report their live mappings in the container list, and stopped ones are
// inspected for the port bindings in their host config.
package docker
