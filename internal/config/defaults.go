package config

// defaultPackages is the package set of the Ubuntu 22.04 Cloudberry
// build image. A manifest file overrides it wholesale.
var defaultPackages = []string{
	"apt-utils",
	"bison",
	"build-essential",
	"ca-certificates",
	"ca-certificates-java",
	"cgroup-tools",
	"cmake",
	"curl",
	"debhelper",
	"debootstrap",
	"devscripts",
	"equivs",
	"flex",
	"g++-11",
	"g++-11-multilib",
	"gcc-11",
	"git",
	"gnupg",
	"htop",
	"iproute2",
	"iputils-ping",
	"krb5-multidev",
	"less",
	"libapr1-dev",
	"libaprutil1-dev",
	"libbz2-dev",
	"libcgroup1",
	"libcurl4-gnutls-dev",
	"libevent-dev",
	"libfakeroot",
	"libgpgme11",
	"libgpgme-dev",
	"libkrb5-dev",
	"libldap-2.5-0",
	"libldap2-dev",
	"liblz4-dev",
	"libpam0g",
	"libpam0g-dev",
	"libperl-dev",
	"libprotobuf-dev",
	"libpstreams-dev",
	"libreadline-dev",
	"libssl3",
	"libssl-dev",
	"libsystemd-dev",
	"libuv1-dev",
	"libxerces-c-dev",
	"libxml2-dev",
	"libyaml-0-2",
	"libyaml-dev",
	"libzstd-dev",
	"lsof",
	"make",
	"net-tools",
	"ninja-build",
	"openssh-client",
	"openssh-server",
	"openssl",
	"pkg-config",
	"protobuf-compiler",
	"python3.10",
	"python3.10-dev",
	"python3-distutils",
	"python3-pip",
	"python3-setuptools",
	"python-six",
	"quilt",
	"rsync",
	"silversearcher-ag",
	"sudo",
	"tzdata",
	"unzip",
	"vim",
	"wget",
	"zlib1g-dev",
}
